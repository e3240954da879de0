package citation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/extract"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/segment"
)

var testParams = segment.Params{TargetSize: 1000, MaxSize: 1500, MinSize: 200, OverlapRatio: 0.1}

func testBase() DocumentBase {
	return DocumentBase{
		DocumentID:  "doc-1",
		SourceFile:  "uploads/commercial_policy.pdf",
		Type:        document.TypePolicy,
		PageNumber:  3,
		ProcessedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Fields:      extract.Extract("Policy Number: POL-555001", document.TypePolicy),
	}
}

func TestEnrich(t *testing.T) {
	e := NewEnricher(testParams)

	chunk := segment.Chunk{
		ID:       "chunk_2",
		Content:  "EXCLUSIONS This policy does not cover loss caused by flood. " + strings.Repeat("Further terms apply to the excluded perils listed herein. ", 5),
		Section:  "EXCLUSIONS",
		Position: 2,
		Method:   segment.MethodBoundary,
	}

	rec := e.Enrich(chunk, testBase())

	assert.Equal(t, "doc-1_chunk_2", rec.ID)
	assert.Equal(t, "doc-1", rec.ParentID)
	assert.Equal(t, chunk.Content, rec.Content)
	assert.Equal(t, "uploads/commercial_policy.pdf", rec.Source)
	assert.Equal(t, "commercial_policy - Exclusions", rec.Title)
	assert.Empty(t, rec.ContentVector)

	var info Info
	require.NoError(t, json.Unmarshal([]byte(rec.CitationInfo), &info))
	assert.Equal(t, "doc-1", info.DocumentID)
	assert.Equal(t, "uploads/commercial_policy.pdf", info.SourceFile)
	assert.Equal(t, "EXCLUSIONS", info.SectionName)
	assert.Equal(t, 2, info.ChunkIndex)
	assert.Equal(t, 3, info.PageNumber)
	assert.Equal(t, "2024-06-01T12:00:00Z", info.ProcessedAt)
	assert.Equal(t, "policy", info.DocumentType)
	assert.Equal(t, "heading", info.SectionType)
	assert.Equal(t, "exclusions", info.ContentType)
	assert.Equal(t, "POL-555001", info.PolicyNumber)
	assert.Equal(t, len(chunk.Content), info.CharCount)
	assert.Equal(t, len(strings.Fields(chunk.Content)), info.WordCount)
	assert.False(t, info.ContainsAmounts)
	assert.False(t, info.ContainsDates)
	assert.Equal(t, "POL-555001", info.Fields["policy_number"])
}

func TestEnrich_ChunkFieldsWinOverBase(t *testing.T) {
	e := NewEnricher(testParams)
	chunk := segment.Chunk{
		ID:      "chunk_0",
		Content: "Policy Number: POL-999888 supersedes all prior declarations.",
		Method:  segment.MethodBoundary,
	}

	rec := e.Enrich(chunk, testBase())

	var info Info
	require.NoError(t, json.Unmarshal([]byte(rec.CitationInfo), &info))
	assert.Equal(t, "POL-999888", info.PolicyNumber)
}

func TestEnrich_ZeroProcessedAtDefaultsToNow(t *testing.T) {
	e := NewEnricher(testParams)
	base := testBase()
	base.ProcessedAt = time.Time{}

	rec := e.Enrich(segment.Chunk{ID: "chunk_0", Content: "text"}, base)

	var info Info
	require.NoError(t, json.Unmarshal([]byte(rec.CitationInfo), &info))
	parsed, err := time.Parse(time.RFC3339, info.ProcessedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"The insuring agreement provides coverage for direct physical loss.", "coverage"},
		{"Deductible: $1,000 per occurrence applies before payment.", "deductible"},
		{"The claimant reported the date of loss to the adjuster.", "claim"},
		{"Premium is due in monthly installments per the billing schedule.", "payment"},
		{"Cancellation requires thirty days written notice.", "conditions"},
		{"Q: How do I file? Question: where to send forms.", "faq"},
		{"Miscellaneous narrative with no signal words.", "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyContent(tt.content), "content %q", tt.content)
	}

	t.Run("Coverage Wins Over Exclusions", func(t *testing.T) {
		// Ambiguous text hits both buckets; priority order decides.
		got := classifyContent("This exclusion limits the coverage granted above.")
		assert.Equal(t, "coverage", got)
	})
}

func TestConfidenceScore(t *testing.T) {
	ids := map[string]string{"policy_number": "POL-1"}

	long := segment.Chunk{Content: strings.Repeat("a", 500), Section: "EXCLUSIONS", Method: segment.MethodBoundary}
	short := segment.Chunk{Content: strings.Repeat("a", 50), Method: segment.MethodForced}

	t.Run("Monotonic With Evidence", func(t *testing.T) {
		assert.Greater(t, confidenceScore(long, ids), confidenceScore(long, nil))
		assert.Greater(t, confidenceScore(long, nil), confidenceScore(short, nil))
	})

	t.Run("Bounds", func(t *testing.T) {
		assert.InDelta(t, 1.0, confidenceScore(long, ids), 1e-9)
		assert.InDelta(t, 0.5, confidenceScore(short, nil), 1e-9)
	})

	t.Run("Mid Length Partial Bonus", func(t *testing.T) {
		mid := segment.Chunk{Content: strings.Repeat("a", 150), Method: segment.MethodForced}
		assert.InDelta(t, 0.6, confidenceScore(mid, nil), 1e-9)
	})
}

func TestBuildTitle(t *testing.T) {
	t.Run("Section Name", func(t *testing.T) {
		c := segment.Chunk{Section: "GENERAL CONDITIONS", Position: 4}
		assert.Equal(t, "policy - General Conditions", buildTitle("docs/policy.pdf", c, "general"))
	})

	t.Run("Content Type Fallback", func(t *testing.T) {
		c := segment.Chunk{Section: segment.DefaultSection, Position: 4}
		assert.Equal(t, "policy - Coverage", buildTitle("docs/policy.pdf", c, "coverage"))
	})

	t.Run("Position Fallback", func(t *testing.T) {
		c := segment.Chunk{Section: segment.DefaultSection, Position: 4}
		assert.Equal(t, "policy - Part 5", buildTitle("docs/policy.pdf", c, "general"))
	})

	t.Run("Empty Source", func(t *testing.T) {
		c := segment.Chunk{Section: segment.DefaultSection, Position: 0}
		assert.Equal(t, "Document - Part 1", buildTitle("", c, "general"))
	})
}

func TestSectionType(t *testing.T) {
	assert.Equal(t, "content", sectionType(""))
	assert.Equal(t, "content", sectionType(segment.DefaultSection))
	assert.Equal(t, "heading", sectionType("EXCLUSIONS"))
}
