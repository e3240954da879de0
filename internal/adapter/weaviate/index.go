package weaviate

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/retrieval"
)

// SearchIndex implements retrieval.Index over one Weaviate class.
type SearchIndex struct {
	client *weaviate.Client
	name   string
	class  string
}

func NewSearchIndex(client *weaviate.Client, name, class string) *SearchIndex {
	return &SearchIndex{client: client, name: name, class: class}
}

func (s *SearchIndex) Name() string { return s.name }

func fullFieldSelection() []graphql.Field {
	return []graphql.Field{
		{Name: "recordId"},
		{Name: "content"},
		{Name: "title"},
		{Name: "parentId"},
		{Name: "source"},
		{Name: "citationInfo"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "score"}}},
	}
}

func minimalFieldSelection() []graphql.Field {
	return []graphql.Field{
		{Name: "content"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "score"}}},
	}
}

// Search runs a text query against the class. If the full field selection is
// rejected (stale schema, older server), it degrades to a minimal selection
// rather than failing.
func (s *SearchIndex) Search(ctx context.Context, query string, limit int) ([]retrieval.Hit, error) {
	hits, err := s.search(ctx, query, limit, fullFieldSelection())
	if err != nil {
		slog.WarnContext(ctx, "field selection rejected, retrying with minimal fields",
			"index", s.name, "error", err)
		return s.search(ctx, query, limit, minimalFieldSelection())
	}
	return hits, nil
}

func (s *SearchIndex) search(ctx context.Context, query string, limit int, fields []graphql.Field) ([]retrieval.Hit, error) {
	// Alpha 0 makes the hybrid query pure keyword ranking; query-time
	// embedding is the caller's concern, not the index's.
	hybrid := s.client.GraphQL().HybridArgumentBuilder().
		WithQuery(query).
		WithAlpha(0)

	res, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithHybrid(hybrid).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var hits []retrieval.Hit
	for _, props := range objectsFromResponse(res.Data, s.class) {
		hit := retrieval.Hit{
			ID:           stringProp(props, "recordId"),
			Content:      stringProp(props, "content"),
			Title:        stringProp(props, "title"),
			ParentID:     stringProp(props, "parentId"),
			Source:       stringProp(props, "source"),
			CitationInfo: stringProp(props, "citationInfo"),
			Score:        scoreProp(props),
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// scoreProp tolerates both encodings Weaviate uses for _additional.score
// across server versions: a JSON number or a stringified float.
func scoreProp(props map[string]interface{}) float64 {
	additional, ok := props["_additional"].(map[string]interface{})
	if !ok {
		return 0
	}
	switch v := additional["score"].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
