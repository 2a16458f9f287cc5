package augment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPClassifier talks to a black-box classification service over JSON.
// The request puts the raw file bytes on the wire base64-encoded (encoding/
// json does that for []byte); the response carries a transaction array or a
// structured error.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClassifier(endpoint string, client *http.Client) *HTTPClassifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClassifier{endpoint: endpoint, client: client}
}

func (c *HTTPClassifier) Name() string { return "http" }

type classifyPayload struct {
	Filename        string     `json:"filename"`
	ContentType     string     `json:"content_type,omitempty"`
	File            []byte     `json:"file,omitempty"`
	Text            string     `json:"text,omitempty"`
	ContextTag      ContextTag `json:"context_tag"`
	UseAugmentation bool       `json:"use_augmentation"`
	ProviderHint    string     `json:"provider_hint,omitempty"`
}

type classifyResponse struct {
	Transactions []wireTransaction `json:"transactions"`
	Error        string            `json:"error,omitempty"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	body, err := json.Marshal(classifyPayload{
		Filename:        req.Filename,
		ContentType:     req.ContentType,
		File:            req.FileBytes,
		Text:            req.Text,
		ContextTag:      req.ContextTag,
		UseAugmentation: req.UseAugmentation,
		ProviderHint:    req.ProviderHint,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding classify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return nil, fmt.Errorf("classification service: %s", decoded.Error)
		}
		return nil, fmt.Errorf("classification service returned status %d", resp.StatusCode)
	}

	transactions, err := convertWire(decoded.Transactions)
	if err != nil {
		return nil, err
	}
	return &ClassifyResult{Transactions: transactions, Provider: c.Name()}, nil
}
