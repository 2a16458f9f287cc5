package augment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiClassifier extracts transactions by prompting a Gemini model with
// the document and demanding a strict JSON array back.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini classifier requires an API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClassifier{client: client, model: client.GenerativeModel(model)}, nil
}

func (c *GeminiClassifier) Name() string { return "gemini" }

func (c *GeminiClassifier) Close() error { return c.client.Close() }

const geminiPrompt = `You are a bank statement parser.
Parse ALL transactions in the attached statement.
Output STRICT JSON only: a JSON array of objects, no Markdown, no code fences.
Each object must have exactly these fields:
- "date": string, ISO format "YYYY-MM-DD"
- "description": string
- "amount": number, always positive
- "direction": "debit" for money out, "credit" for money in
Skip opening/closing balance and carried-forward lines.
The ingestion intent is %q; bias ambiguous lines accordingly.
Output must begin with "[" and end with "]".`

func (c *GeminiClassifier) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	parts := []genai.Part{genai.Text(fmt.Sprintf(geminiPrompt, req.ContextTag))}
	if req.Text != "" {
		parts = append(parts, genai.Text("\n\nStatement text:\n"+req.Text))
	} else {
		mime := req.ContentType
		if mime == "" {
			mime = "application/octet-stream"
		}
		parts = append(parts, genai.Blob{MIMEType: mime, Data: req.FileBytes})
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	raw := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	var wire []wireTransaction
	if err := json.Unmarshal([]byte(stripFences(raw)), &wire); err != nil {
		return nil, fmt.Errorf("gemini response is not a transaction array: %w", err)
	}

	transactions, err := convertWire(wire)
	if err != nil {
		return nil, err
	}
	return &ClassifyResult{Transactions: transactions, Provider: c.Name()}, nil
}

// stripFences undoes Markdown wrapping when the model ignores the
// plain-JSON instruction, then trims to the outermost array.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
