package citation

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/extract"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/segment"
)

// contentBuckets classify chunk text by keyword. Order is the priority:
// the first bucket with a hit wins, which matters for ambiguous text (an
// exclusions paragraph usually also mentions coverage).
var contentBuckets = []struct {
	label    string
	keywords []string
}{
	{"coverage", []string{"coverage", "insuring agreement", "limit of liability", "covered"}},
	{"exclusions", []string{"exclusion", "not covered", "does not apply", "excluded"}},
	{"deductible", []string{"deductible", "retention", "out-of-pocket"}},
	{"claim", []string{"claim", "date of loss", "claimant", "adjuster"}},
	{"payment", []string{"payment", "premium", "billing", "installment"}},
	{"conditions", []string{"condition", "duties", "cancellation", "obligation"}},
	{"faq", []string{"frequently asked", "q:", "question:"}},
}

func classifyContent(content string) string {
	lower := strings.ToLower(content)
	for _, b := range contentBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.label
			}
		}
	}
	return "general"
}

// Enricher combines chunks with extracted metadata and document context into
// retrieval-ready records. It is pure given its inputs.
type Enricher struct {
	params segment.Params
}

func NewEnricher(params segment.Params) *Enricher {
	return &Enricher{params: params}
}

// Enrich merges chunk-level extraction over the document-level base fields
// (chunk values win), classifies content, scores confidence, and emits the
// record with its serialized citation payload.
func (e *Enricher) Enrich(chunk segment.Chunk, base DocumentBase) Record {
	chunkFields := extract.Extract(chunk.Content, base.Type)
	merged := extract.Overlay(base.Fields, chunkFields)
	ids := merged.Identifiers()
	flags := extract.Flags(chunk.Content)

	contentType := classifyContent(chunk.Content)
	quality := segment.QualityScore(chunk, e.params)
	confidence := confidenceScore(chunk, ids)

	processedAt := base.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now().UTC()
	}

	info := Info{
		DocumentID:       base.DocumentID,
		SourceFile:       base.SourceFile,
		SectionName:      chunk.Section,
		ChunkIndex:       chunk.Position,
		PageNumber:       base.PageNumber,
		ProcessedAt:      processedAt.Format(time.RFC3339),
		DocumentType:     string(base.Type),
		SectionType:      sectionType(chunk.Section),
		ContentType:      contentType,
		PolicyNumber:     ids["policy_number"],
		ClaimNumber:      ids["claim_number"],
		ConfidenceScore:  confidence,
		WordCount:        len(strings.Fields(chunk.Content)),
		CharCount:        len(chunk.Content),
		ContainsAmounts:  flags.ContainsAmounts,
		ContainsDates:    flags.ContainsDates,
		ContainsCoverage: flags.ContainsCoverage,
		QualityScore:     quality,
		Fields:           merged.Payload(),
	}

	payload, err := json.Marshal(info)
	if err != nil {
		// Info contains only JSON-safe types; this cannot fail in practice.
		payload = []byte("{}")
	}

	return Record{
		ID:           fmt.Sprintf("%s_%s", base.DocumentID, chunk.ID),
		Content:      chunk.Content,
		Title:        buildTitle(base.SourceFile, chunk, contentType),
		ParentID:     base.DocumentID,
		Source:       base.SourceFile,
		CitationInfo: string(payload),
	}
}

// confidenceScore starts at 0.5 and rewards length, a resolved section, a
// present identifier, and a boundary-based split, capped at 1.0.
func confidenceScore(chunk segment.Chunk, ids map[string]string) float64 {
	score := 0.5
	n := len(chunk.Content)
	switch {
	case n >= 200 && n <= 1500:
		score += 0.2
	case n >= 100:
		score += 0.1
	}
	if chunk.Section != segment.DefaultSection && chunk.Section != "" {
		score += 0.1
	}
	if len(ids) > 0 {
		score += 0.1
	}
	if chunk.Method == segment.MethodBoundary {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func sectionType(section string) string {
	if section == "" || section == segment.DefaultSection {
		return "content"
	}
	return "heading"
}

func buildTitle(sourceFile string, chunk segment.Chunk, contentType string) string {
	name := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	if name == "" {
		name = "Document"
	}
	if chunk.Section != "" && chunk.Section != segment.DefaultSection {
		return fmt.Sprintf("%s - %s", name, titleCase(chunk.Section))
	}
	if contentType != "general" {
		return fmt.Sprintf("%s - %s", name, titleCase(contentType))
	}
	return fmt.Sprintf("%s - Part %d", name, chunk.Position+1)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
