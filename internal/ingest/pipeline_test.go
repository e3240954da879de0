package ingest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/citation"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/ingest"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/segment"
)

var testParams = segment.Params{TargetSize: 400, MaxSize: 600, MinSize: 100, OverlapRatio: 0.1}

func samplePolicyDoc() document.Document {
	var b strings.Builder
	b.WriteString("Policy Number: POL-123456\n")
	b.WriteString("COVERAGE\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "This policy provides coverage for loss category %d as described below. ", i)
	}
	b.WriteString("\nEXCLUSIONS\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "Loss arising from peril %d is excluded from this policy. ", i)
	}
	return document.Document{
		ID:         "doc-42",
		SourceFile: "uploads/policy.pdf",
		Type:       document.TypePolicy,
		Content:    b.String(),
		PageCount:  2,
	}
}

func TestPipeline_Process(t *testing.T) {
	p := ingest.NewPipeline(testParams)

	t.Run("Produces Ordered Records", func(t *testing.T) {
		records, err := p.Process(context.Background(), samplePolicyDoc(), nil)
		require.NoError(t, err)
		require.NotEmpty(t, records)

		for i, rec := range records {
			assert.Equal(t, fmt.Sprintf("doc-42_chunk_%d", i), rec.ID)
			assert.Equal(t, "doc-42", rec.ParentID)
			assert.Equal(t, "uploads/policy.pdf", rec.Source)
			assert.NotEmpty(t, rec.Content)
			assert.NotEmpty(t, rec.Title)

			var info citation.Info
			require.NoError(t, json.Unmarshal([]byte(rec.CitationInfo), &info))
			assert.Equal(t, i, info.ChunkIndex)
			assert.Equal(t, "policy", info.DocumentType)
			assert.Equal(t, "POL-123456", info.PolicyNumber)
		}
	})

	t.Run("Empty Content Yields No Records No Error", func(t *testing.T) {
		doc := samplePolicyDoc()
		doc.Content = "   \n  "
		records, err := p.Process(context.Background(), doc, nil)
		assert.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Unknown Type Is Rejected", func(t *testing.T) {
		doc := samplePolicyDoc()
		doc.Type = "invoice"
		_, err := p.Process(context.Background(), doc, nil)
		assert.Error(t, err)
	})

	t.Run("Hints Fill Extraction Gaps", func(t *testing.T) {
		doc := document.Document{
			ID:         "doc-7",
			SourceFile: "claim.pdf",
			Type:       document.TypeClaim,
			Content: "Claim Number: CLM-2024-009\n" +
				strings.Repeat("The loss was reported promptly and is under investigation. ", 6),
		}
		records, err := p.Process(context.Background(), doc, map[string]string{
			"adjuster":     "Mary Major",
			"claim_number": "CLM-HINT", // must not override the pattern match
		})
		require.NoError(t, err)
		require.NotEmpty(t, records)

		var info citation.Info
		require.NoError(t, json.Unmarshal([]byte(records[0].CitationInfo), &info))
		assert.Equal(t, "CLM-2024-009", info.ClaimNumber)
		assert.Equal(t, "Mary Major", info.Fields["adjuster_name"])
	})

	t.Run("Deterministic", func(t *testing.T) {
		doc := samplePolicyDoc()
		a, err := p.Process(context.Background(), doc, nil)
		require.NoError(t, err)
		b, err := p.Process(context.Background(), doc, nil)
		require.NoError(t, err)

		require.Equal(t, len(a), len(b))
		for i := range a {
			assert.Equal(t, a[i].ID, b[i].ID)
			assert.Equal(t, a[i].Content, b[i].Content)
			assert.Equal(t, a[i].Title, b[i].Title)
		}
	})
}
