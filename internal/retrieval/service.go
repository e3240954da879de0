package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Hit is one ranked result from a single index. Hits are ephemeral: produced
// per query, never persisted.
type Hit struct {
	ID           string
	Content      string
	Title        string
	ParentID     string
	Source       string
	CitationInfo string
	Score        float64
	Index        string
}

// Index is one topic-partitioned store the retriever fans out to.
type Index interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

type Service struct {
	indexes []Index
	timeout time.Duration
	logger  *QueryLogger
}

func NewService(indexes []Index, timeout time.Duration, logger *QueryLogger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{indexes: indexes, timeout: timeout, logger: logger}
}

// Retrieve issues one query per index concurrently, merges the hits, ranks
// them by score, deduplicates by id, and truncates to topK. A failing, slow,
// or empty index contributes zero hits without failing the call; if every
// index fails the result is an empty slice, not an error.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) []Hit {
	start := time.Now()
	if topK <= 0 || len(s.indexes) == 0 {
		return nil
	}

	perIndex := topK / len(s.indexes)
	if perIndex < 1 {
		perIndex = 1
	}

	// Results keyed by fan-out position so the merge order, and with it the
	// tie-break on equal scores, stays deterministic.
	buckets := make([][]Hit, len(s.indexes))
	done := make(chan int, len(s.indexes))

	for i, idx := range s.indexes {
		go func(i int, idx Index) {
			defer func() { done <- i }()

			qCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			hits, err := idx.Search(qCtx, query, perIndex)
			if err != nil {
				slog.WarnContext(ctx, "index query failed, contributing zero hits",
					"index", idx.Name(), "error", err)
				return
			}
			for j := range hits {
				hits[j].Index = idx.Name()
			}
			buckets[i] = hits
		}(i, idx)
	}
	for range s.indexes {
		<-done
	}

	var merged []Hit
	for _, b := range buckets {
		merged = append(merged, b...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	seen := make(map[string]bool, len(merged))
	out := make([]Hit, 0, topK)
	for _, h := range merged {
		key := h.ID
		if key == "" {
			key = "synthetic_" + uuid.New().String()
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
		if len(out) == topK {
			break
		}
	}

	if s.logger != nil {
		s.logger.Log(QueryLogEntry{
			Query:      query,
			Indexes:    len(s.indexes),
			NumResults: len(out),
			Duration:   time.Since(start),
		})
	}
	return out
}
