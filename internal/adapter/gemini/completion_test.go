package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/adapter/gemini"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/answer"
)

func newCompletionServer(t *testing.T, response map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

func TestCompletion_Complete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newCompletionServer(t, map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"role":  "model",
						"parts": []map[string]interface{}{{"text": "The policy excludes flood damage."}},
					},
					"finishReason": "STOP",
				},
			},
			"usageMetadata": map[string]interface{}{
				"promptTokenCount":     120,
				"candidatesTokenCount": 30,
				"totalTokenCount":      150,
			},
		})
		defer ts.Close()

		ctx := context.Background()
		completion, err := gemini.NewCompletion(ctx, "test-key", "", option.WithEndpoint(ts.URL))
		require.NoError(t, err)

		res, err := completion.Complete(ctx, answer.CompletionRequest{
			UserPrompt:  "Is flood damage covered?",
			Temperature: 0.2,
			MaxTokens:   256,
		})
		require.NoError(t, err)
		assert.Equal(t, "The policy excludes flood damage.", res.Text)
		assert.Equal(t, 120, res.Usage.Prompt)
		assert.Equal(t, 30, res.Usage.Completion)
		assert.Equal(t, 150, res.Usage.Total)
	})

	t.Run("No Candidates", func(t *testing.T) {
		ts := newCompletionServer(t, map[string]interface{}{
			"candidates": []map[string]interface{}{},
		})
		defer ts.Close()

		ctx := context.Background()
		completion, err := gemini.NewCompletion(ctx, "test-key", "", option.WithEndpoint(ts.URL))
		require.NoError(t, err)

		_, err = completion.Complete(ctx, answer.CompletionRequest{UserPrompt: "q"})
		assert.ErrorIs(t, err, gemini.ErrEmptyCompletion)
	})

	t.Run("Server Error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		ctx := context.Background()
		completion, err := gemini.NewCompletion(ctx, "test-key", "", option.WithEndpoint(ts.URL))
		require.NoError(t, err)

		_, err = completion.Complete(ctx, answer.CompletionRequest{UserPrompt: "q"})
		assert.Error(t, err)
	})
}
