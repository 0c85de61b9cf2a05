package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerateJSON runs a schema-constrained text generation and returns the raw
// JSON text of the first candidate. The SDK client lives only for this call.
func (c *Client) GenerateJSON(ctx context.Context, req TextRequest) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errors.New("gemini: api key is empty")
	}

	opts := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.baseURL != DefaultBaseURL {
		opts = append(opts, option.WithEndpoint(c.baseURL))
	}

	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.textModel)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}

	m.SetTemperature(req.Temperature)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = req.Schema
	if req.SystemInstruction != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.UserText))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := candidateText(resp)
	c.logger.Debug("text generated", "model", c.textModel, "chars", len(text))
	return text, nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
