package weaviate

import (
	"context"
	"fmt"
	"sort"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/citation"
)

// Store persists citation records into one Weaviate class.
type Store struct {
	client *weaviate.Client
	class  string
}

func NewStore(client *weaviate.Client, class string) *Store {
	return &Store{client: client, class: class}
}

func (s *Store) StoreRecord(ctx context.Context, rec citation.Record, chunkIndex int) error {
	_, err := s.client.Data().Creator().
		WithClassName(s.class).
		WithProperties(map[string]interface{}{
			"recordId":     rec.ID,
			"content":      rec.Content,
			"title":        rec.Title,
			"parentId":     rec.ParentID,
			"source":       rec.Source,
			"chunkIndex":   chunkIndex,
			"citationInfo": rec.CitationInfo,
		}).
		WithVector(rec.ContentVector).
		Do(ctx)
	return err
}

// DeleteByParent removes every chunk of one source document, making
// re-ingestion idempotent.
func (s *Store) DeleteByParent(ctx context.Context, parentID string) error {
	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(s.class).
		WithOutput("minimal").
		WithWhere(filters.Where().
			WithPath([]string{"parentId"}).
			WithOperator(filters.Equal).
			WithValueString(parentID)).
		Do(ctx)
	return err
}

// GetByParent returns every record of one source document ordered by chunk
// index. All records sharing a parentId reconstruct the document in original
// order with bounded overlap.
func (s *Store) GetByParent(ctx context.Context, parentID string) ([]citation.Record, error) {
	fields := []graphql.Field{
		{Name: "recordId"},
		{Name: "content"},
		{Name: "title"},
		{Name: "parentId"},
		{Name: "source"},
		{Name: "chunkIndex"},
		{Name: "citationInfo"},
	}

	where := filters.Where().
		WithOperator(filters.Equal).
		WithPath([]string{"parentId"}).
		WithValueString(parentID)

	res, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithWhere(where).
		WithLimit(1000).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	type indexed struct {
		rec citation.Record
		idx int
	}
	var recs []indexed
	for _, props := range objectsFromResponse(res.Data, s.class) {
		rec := citation.Record{
			ID:           stringProp(props, "recordId"),
			Content:      stringProp(props, "content"),
			Title:        stringProp(props, "title"),
			ParentID:     stringProp(props, "parentId"),
			Source:       stringProp(props, "source"),
			CitationInfo: stringProp(props, "citationInfo"),
		}
		recs = append(recs, indexed{rec: rec, idx: intProp(props, "chunkIndex")})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].idx < recs[j].idx })

	out := make([]citation.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.rec)
	}
	return out, nil
}

func objectsFromResponse(data map[string]models.JSONObject, class string) []map[string]interface{} {
	var out []map[string]interface{}
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	objs, ok := get[class].([]interface{})
	if !ok {
		return nil
	}
	for _, o := range objs {
		if props, ok := o.(map[string]interface{}); ok {
			out = append(out, props)
		}
	}
	return out
}

func stringProp(props map[string]interface{}, name string) string {
	if v, ok := props[name].(string); ok {
		return v
	}
	return ""
}

func intProp(props map[string]interface{}, name string) int {
	if v, ok := props[name].(float64); ok {
		return int(v)
	}
	return 0
}
