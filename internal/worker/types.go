package worker

import (
	"context"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/citation"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RecordStore persists citation records into one topic-partitioned index.
type RecordStore interface {
	StoreRecord(ctx context.Context, rec citation.Record, chunkIndex int) error
	DeleteByParent(ctx context.Context, parentID string) error
}

// StoreSet maps each document type to its index store.
type StoreSet map[document.Type]RecordStore

type TaskPublisher interface {
	Publish(topic string, body []byte) error
}
