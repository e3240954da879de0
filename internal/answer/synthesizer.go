package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/retrieval"
)

const (
	// Context window bounds: first maxContextHits hits, each truncated to
	// contextCharBudget characters.
	maxContextHits    = 5
	contextCharBudget = 1500

	maxCitations = 5
	previewChars = 200

	// NoDocumentsAnswer is returned without a completion call when the
	// ranked hit list is empty.
	NoDocumentsAnswer = "I could not find any relevant documents to answer this question. Please try rephrasing or verify the documents have been ingested."
)

const systemPrompt = `You are an insurance document analyst. Answer strictly from the provided document excerpts.
Cite the section or clause each statement comes from (for example "per the EXCLUSIONS section").
If the excerpts do not contain the answer, say explicitly that the information is unclear or missing. Do not speculate.`

type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  float32
	MaxTokens    int
}

type CompletionResult struct {
	Text  string
	Usage TokenUsage
}

// Completer is the external LLM completion service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

type ChatConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Citation is the user-facing summary of a ranked hit, deduplicated by
// source. Created per answer, discarded after the response.
type Citation struct {
	Source  string  `json:"source"`
	Title   string  `json:"title"`
	Preview string  `json:"preview"`
	Score   float64 `json:"score"`
}

type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Usage     TokenUsage `json:"token_usage"`
}

// CompletionError is the typed failure surfaced when the completion service
// is unavailable. Token usage is zero; the caller decides on fallback text.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

type Synthesizer struct {
	completer Completer
}

func NewSynthesizer(c Completer) *Synthesizer {
	return &Synthesizer{completer: c}
}

// Synthesize builds a bounded context from the ranked hits, delegates to the
// completion service, and derives deduplicated citations from the same hit
// list. Empty hits short-circuit without a completion call.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, hits []retrieval.Hit, cfg ChatConfig) (Answer, error) {
	if len(hits) == 0 {
		slog.InfoContext(ctx, "no ranked hits, skipping completion", "question_len", len(question))
		return Answer{Text: NoDocumentsAnswer, Citations: []Citation{}}, nil
	}

	userPrompt := buildUserPrompt(question, hits)

	res, err := s.completer.Complete(ctx, CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
	})
	if err != nil {
		return Answer{Citations: []Citation{}}, &CompletionError{Err: err}
	}

	return Answer{
		Text:      res.Text,
		Citations: deriveCitations(hits),
		Usage:     res.Usage,
	}, nil
}

func buildUserPrompt(question string, hits []retrieval.Hit) string {
	var b strings.Builder
	b.WriteString("Document excerpts:\n\n")

	n := len(hits)
	if n > maxContextHits {
		n = maxContextHits
	}
	for i := 0; i < n; i++ {
		h := hits[i]
		content := truncate(h.Content, contextCharBudget)
		label := h.Title
		if label == "" {
			label = h.Source
		}
		fmt.Fprintf(&b, "[Source %d: %s]\n%s\n\n", i+1, label, content)
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

// truncate cuts s to at most n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// deriveCitations deduplicates by source, first (highest-ranked) occurrence
// wins, capped at maxCitations.
func deriveCitations(hits []retrieval.Hit) []Citation {
	seen := make(map[string]bool, len(hits))
	out := make([]Citation, 0, maxCitations)
	for _, h := range hits {
		src := h.Source
		if src == "" {
			src = h.ID
		}
		if seen[src] {
			continue
		}
		seen[src] = true

		preview := h.Content
		if len(preview) > previewChars {
			preview = truncate(preview, previewChars) + "..."
		}
		out = append(out, Citation{
			Source:  src,
			Title:   h.Title,
			Preview: preview,
			Score:   h.Score,
		})
		if len(out) == maxCitations {
			break
		}
	}
	return out
}
