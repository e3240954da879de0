package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/adapter/docintel"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/batch"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/config"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/ingest"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/middleware"
)

// DocumentConsumer handles ingest.document tasks: extract text if needed,
// run the ingestion pipeline, and fan the resulting records out as
// ingest.embed tasks.
type DocumentConsumer struct {
	pipeline  *ingest.Pipeline
	extractor docintel.Extractor
	stores    StoreSet
	publisher TaskPublisher
	tracker   batch.Tracker
}

func NewDocumentConsumer(p *ingest.Pipeline, e docintel.Extractor, s StoreSet, tp TaskPublisher, t batch.Tracker) *DocumentConsumer {
	return &DocumentConsumer{pipeline: p, extractor: e, stores: s, publisher: tp, tracker: t}
}

func (h *DocumentConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var task DocumentTask
	if err := json.Unmarshal(m.Body, &task); err != nil {
		// Poison pill: invalid JSON will never succeed, don't retry.
		slog.Error("poison pill: invalid document task", "error", err)
		return nil
	}

	correlationID := task.CorrelationID
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	ctx := middleware.WithCorrelationID(context.Background(), correlationID)

	docType := document.Type(task.DocumentType)
	if task.DocumentID == "" || !docType.Valid() {
		slog.ErrorContext(ctx, "dropping task with missing id or unknown type",
			"document_id", task.DocumentID, "document_type", task.DocumentType)
		h.markFailed(ctx, task.BatchID)
		return nil
	}

	content := task.Content
	var hints map[string]string
	pageCount := task.PageCount
	if content == "" && len(task.Data) > 0 {
		exCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
		res, err := h.extractor.Extract(exCtx, task.Data, task.ContentType)
		cancel()
		if err != nil {
			slog.ErrorContext(ctx, "document extraction failed", "document_id", task.DocumentID, "error", err)
			return err // transient, retry
		}
		content = res.Text
		hints = res.KeyValues
		if res.Pages > 0 {
			pageCount = res.Pages
		}
	}

	// Re-ingestion idempotency: clear any previous chunks of this document.
	if store, ok := h.stores[docType]; ok {
		if err := store.DeleteByParent(ctx, task.DocumentID); err != nil {
			slog.WarnContext(ctx, "failed to delete old chunks", "document_id", task.DocumentID, "error", err)
		}
	}

	doc := document.Document{
		ID:         task.DocumentID,
		SourceFile: task.SourceFile,
		Type:       docType,
		Content:    content,
		PageCount:  pageCount,
	}

	records, err := h.pipeline.Process(ctx, doc, hints)
	if err != nil {
		slog.ErrorContext(ctx, "pipeline failed", "document_id", task.DocumentID, "error", err)
		h.markFailed(ctx, task.BatchID)
		return nil
	}

	for i, rec := range records {
		embedTask := EmbedTask{
			BatchID:       task.BatchID,
			DocumentType:  task.DocumentType,
			ChunkIndex:    i,
			Record:        rec,
			CorrelationID: correlationID,
		}
		body, err := json.Marshal(embedTask)
		if err != nil {
			slog.ErrorContext(ctx, "failed to marshal embed task", "error", err)
			continue
		}
		if err := h.publisher.Publish(config.TopicIngestEmbed, body); err != nil {
			slog.ErrorContext(ctx, "failed to publish embed task", "error", err)
			return err // durable: retry the whole document
		}
	}

	// The document counts as completed once its embed tasks are queued.
	if task.BatchID != "" {
		if err := h.tracker.IncrementCompleted(ctx, task.BatchID); err != nil {
			slog.WarnContext(ctx, "failed to update batch progress", "batch_id", task.BatchID, "error", err)
		}
	}

	slog.InfoContext(ctx, "document queued for embedding",
		"document_id", task.DocumentID, "chunks", len(records))
	return nil
}

func (h *DocumentConsumer) markFailed(ctx context.Context, batchID string) {
	if batchID == "" {
		return
	}
	if err := h.tracker.IncrementFailed(ctx, batchID); err != nil {
		slog.WarnContext(ctx, "failed to update batch progress", "batch_id", batchID, "error", err)
	}
}
