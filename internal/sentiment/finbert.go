package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/samvad-hq/headline-sentiment/pkg/httpclient"
)

// DefaultFinBERTEndpoint is the hosted inference endpoint for ProsusAI/finbert.
const DefaultFinBERTEndpoint = "https://api-inference.huggingface.co/models/ProsusAI/finbert"

// FinBERTClient calls a Hugging Face style text-classification endpoint.
type FinBERTClient struct {
	endpoint string
	token    string
	client   httpclient.Client
}

// NewFinBERTClient creates a client. A nil client gets a 20s timeout.
func NewFinBERTClient(endpoint, token string, client httpclient.Client) *FinBERTClient {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultFinBERTEndpoint
	}
	if client == nil {
		client = httpclient.NewRestyClient(20 * time.Second)
	}
	return &FinBERTClient{
		endpoint: strings.TrimSpace(endpoint),
		token:    strings.TrimSpace(token),
		client:   client,
	}
}

// Classify sends text for classification and returns predictions ordered by score.
func (c *FinBERTClient) Classify(ctx context.Context, text string) ([]Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty text")
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}

	payload := map[string]any{
		"inputs":  text,
		"options": map[string]any{"wait_for_model": true},
	}

	resp, err := c.client.Post(ctx, c.endpoint, headers, payload)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), snippet(resp.Body()))
	}

	preds, err := decodePredictions(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return preds, nil
}

// decodePredictions accepts both [[{label,score}]] and [{label,score}].
func decodePredictions(body []byte) ([]Prediction, error) {
	var nested [][]Prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return sortByScore(nested[0]), nil
	}

	var flat []Prediction
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, err
	}
	return sortByScore(flat), nil
}

func sortByScore(preds []Prediction) []Prediction {
	out := make([]Prediction, len(preds))
	copy(out, preds)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func snippet(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
