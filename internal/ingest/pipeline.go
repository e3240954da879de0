package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/citation"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/extract"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/segment"
)

// Pipeline runs the per-document ingestion stages in order: segmentation,
// document-level extraction, citation enrichment. It holds no mutable state,
// so one Pipeline can process many documents concurrently; within a single
// document the stages are strictly sequential.
type Pipeline struct {
	params   segment.Params
	enricher *citation.Enricher
	now      func() time.Time
}

func NewPipeline(params segment.Params) *Pipeline {
	return &Pipeline{
		params:   params,
		enricher: citation.NewEnricher(params),
		now:      time.Now,
	}
}

// Process turns one document into retrieval-ready citation records. Chunk
// order follows document order; the record at index i carries chunk index i.
// Hints from the document-intelligence service fill extraction gaps but
// never override pattern matches.
func (p *Pipeline) Process(ctx context.Context, doc document.Document, hints map[string]string) ([]citation.Record, error) {
	if !doc.Type.Valid() {
		return nil, fmt.Errorf("unknown document type %q", doc.Type)
	}

	chunks, err := segment.Split(doc.Content, doc.Type, p.params)
	if err != nil {
		return nil, fmt.Errorf("segmenting document %s: %w", doc.ID, err)
	}
	if len(chunks) == 0 {
		slog.InfoContext(ctx, "document produced no chunks", "document_id", doc.ID)
		return nil, nil
	}

	fields := extract.Extract(doc.Content, doc.Type)
	extract.ApplyHints(fields, hints)

	base := citation.DocumentBase{
		DocumentID:  doc.ID,
		SourceFile:  doc.SourceFile,
		Type:        doc.Type,
		PageNumber:  doc.PageCount,
		ProcessedAt: p.now().UTC(),
		Fields:      fields,
	}

	records := make([]citation.Record, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, p.enricher.Enrich(c, base))
	}

	slog.InfoContext(ctx, "document processed",
		"document_id", doc.ID, "type", doc.Type, "chunks", len(records))
	return records, nil
}
