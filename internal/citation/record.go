package citation

import (
	"time"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/extract"
)

// Record is the persisted search document. The top-level field names are
// compatibility-critical; everything else travels inside the serialized
// CitationInfo payload so new metadata never forces an index-schema
// migration.
type Record struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Title         string    `json:"title"`
	ParentID      string    `json:"parent_id"`
	Source        string    `json:"source"`
	ContentVector []float32 `json:"content_vector,omitempty"`

	// CitationInfo is a single serialized JSON object, see Info.
	CitationInfo string `json:"citation_info"`
}

// Info is the structured citation payload embedded in each record.
type Info struct {
	DocumentID   string `json:"document_id"`
	SourceFile   string `json:"source_file"`
	SectionName  string `json:"section_name"`
	ChunkIndex   int    `json:"chunk_index"`
	PageNumber   int    `json:"page_number,omitempty"`
	ProcessedAt  string `json:"processed_at"`
	DocumentType string `json:"document_type"`
	SectionType  string `json:"section_type"`
	ContentType  string `json:"content_type"`

	PolicyNumber string `json:"policy_number,omitempty"`
	ClaimNumber  string `json:"claim_number,omitempty"`

	ConfidenceScore  float64        `json:"confidence_score"`
	WordCount        int            `json:"word_count"`
	CharCount        int            `json:"char_count"`
	ContainsAmounts  bool           `json:"contains_amounts"`
	ContainsDates    bool           `json:"contains_dates"`
	ContainsCoverage bool           `json:"contains_coverage"`
	QualityScore     float64        `json:"quality_score"`
	Fields           map[string]any `json:"fields,omitempty"`
}

// DocumentBase carries the document-level context an enriched chunk inherits:
// identity, source naming, and the fields extracted once per document.
type DocumentBase struct {
	DocumentID  string
	SourceFile  string
	Type        document.Type
	PageNumber  int
	ProcessedAt time.Time
	Fields      *extract.FieldSet
}
