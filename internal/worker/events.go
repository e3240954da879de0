package worker

import "github.com/alipouw13/ai-claims-analysis-sub001/internal/citation"

// DocumentTask asks the document consumer to ingest one document. Either
// Content (already-extracted text) or Data (raw bytes for the
// document-intelligence service) is set.
type DocumentTask struct {
	BatchID      string `json:"batch_id"`
	DocumentID   string `json:"document_id"`
	SourceFile   string `json:"source_file"`
	DocumentType string `json:"document_type"`

	Content     string `json:"content,omitempty"`
	Data        []byte `json:"data,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	PageCount   int    `json:"page_count,omitempty"`

	CorrelationID string `json:"correlation_id,omitempty"`
}

// EmbedTask carries one enriched record to the embed consumer.
type EmbedTask struct {
	BatchID      string          `json:"batch_id"`
	DocumentType string          `json:"document_type"`
	ChunkIndex   int             `json:"chunk_index"`
	Record       citation.Record `json:"record"`

	CorrelationID string `json:"correlation_id,omitempty"`
}
