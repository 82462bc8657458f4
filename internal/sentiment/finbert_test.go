package sentiment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/headline-sentiment/pkg/httpclient"
)

func TestFinBERTClient_NestedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var payload struct {
			Inputs string `json:"inputs"`
		}
		assert.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "Stocks rally", payload.Inputs)

		_, _ = w.Write([]byte(`[[{"label":"neutral","score":0.1},{"label":"positive","score":0.85},{"label":"negative","score":0.05}]]`))
	}))
	defer srv.Close()

	c := NewFinBERTClient(srv.URL, "hf_test", httpclient.NewRestyClient(5*time.Second))
	preds, err := c.Classify(context.Background(), "Stocks rally")

	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, "positive", preds[0].Label)
	assert.InDelta(t, 0.85, preds[0].Score, 1e-9)
}

func TestFinBERTClient_FlatResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"label":"negative","score":0.7}]`))
	}))
	defer srv.Close()

	preds, err := NewFinBERTClient(srv.URL, "", httpclient.NewRestyClient(5*time.Second)).Classify(context.Background(), "Oil slumps")

	require.NoError(t, err)
	assert.Equal(t, []Prediction{{Label: "negative", Score: 0.7}}, preds)
}

func TestFinBERTClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model ProsusAI/finbert is currently loading"}`))
	}))
	defer srv.Close()

	c := NewFinBERTClient(srv.URL, "", httpclient.NewRestyClient(5*time.Second))

	_, err := c.Classify(context.Background(), "Oil slumps")
	assert.ErrorContains(t, err, "unexpected status 503")

	_, err = c.Classify(context.Background(), " ")
	assert.ErrorContains(t, err, "empty text")
}

func TestDecodePredictions_RejectsObjects(t *testing.T) {
	_, err := decodePredictions([]byte(`{"error":"bad"}`))
	assert.Error(t, err)

	preds, err := decodePredictions([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, preds)
}
