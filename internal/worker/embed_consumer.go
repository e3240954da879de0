package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nsqio/go-nsq"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/middleware"
)

// EmbedConsumer handles ingest.embed tasks: embed the record content and
// persist it into the index class for its document type.
type EmbedConsumer struct {
	embedder Embedder
	stores   StoreSet
}

func NewEmbedConsumer(e Embedder, s StoreSet) *EmbedConsumer {
	return &EmbedConsumer{embedder: e, stores: s}
}

func (h *EmbedConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var task EmbedTask
	if err := json.Unmarshal(m.Body, &task); err != nil {
		slog.Error("poison pill: invalid embed task", "error", err)
		return nil
	}

	ctx := context.Background()
	if task.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, task.CorrelationID)
	}

	store, ok := h.stores[document.Type(task.DocumentType)]
	if !ok {
		slog.ErrorContext(ctx, "no index store for document type, dropping",
			"document_type", task.DocumentType, "record_id", task.Record.ID)
		return nil
	}

	// Embed a contextual string so title and source contribute to the
	// vector, while the stored content stays the raw chunk text.
	contextual := fmt.Sprintf("Title: %s\nSource: %s\n---\n%s",
		task.Record.Title, task.Record.Source, task.Record.Content)

	embedCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	vector, err := h.embedder.Embed(embedCtx, contextual)
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "record_id", task.Record.ID, "error", err)
		return err // retry
	}

	rec := task.Record
	rec.ContentVector = vector

	if err := store.StoreRecord(embedCtx, rec, task.ChunkIndex); err != nil {
		slog.ErrorContext(ctx, "store record failed", "record_id", rec.ID, "error", err)
		return err // retry
	}

	slog.InfoContext(ctx, "record stored", "record_id", rec.ID, "chunk_index", task.ChunkIndex)
	return nil
}
