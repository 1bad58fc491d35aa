package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.ExternalServiceError("gemini", err)
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// Complete builds a per-call model handle so concurrent requests never share
// mutable generation settings.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(float32(req.Temperature))
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(int32(req.MaxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content generated", ErrMalformedOutput)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}

	if st, ok := status.FromError(err); ok && st.Code() == codes.ResourceExhausted {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	var blocked *genai.BlockedError
	if stderrors.As(err, &blocked) {
		return fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	return fmt.Errorf("%w: %w", ErrTransient, err)
}
