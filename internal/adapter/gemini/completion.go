package gemini

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/answer"
)

var ErrEmptyCompletion = errors.New("completion returned no candidates")

// Completion implements answer.Completer on top of the Gemini API.
type Completion struct {
	client       *genai.Client
	defaultModel string
}

func NewCompletion(ctx context.Context, apiKey, defaultModel string, opts ...option.ClientOption) (*Completion, error) {
	client, err := genai.NewClient(ctx, append(opts, option.WithAPIKey(apiKey))...)
	if err != nil {
		return nil, err
	}
	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash"
	}
	return &Completion{client: client, defaultModel: defaultModel}, nil
}

func (c *Completion) Complete(ctx context.Context, req answer.CompletionRequest) (answer.CompletionResult, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = c.defaultModel
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		slog.ErrorContext(ctx, "completion failed", "model", modelName, "error", err)
		return answer.CompletionResult{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return answer.CompletionResult{}, ErrEmptyCompletion
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	res := answer.CompletionResult{Text: b.String()}
	if resp.UsageMetadata != nil {
		res.Usage = answer.TokenUsage{
			Prompt:     int(resp.UsageMetadata.PromptTokenCount),
			Completion: int(resp.UsageMetadata.CandidatesTokenCount),
			Total:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return res, nil
}
