package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SaiNageswarS/go-collection-boot/async"
)

type huggingFaceEmbedder struct {
	apiKey     string
	httpClient *http.Client
	url        string
}

func newHuggingFaceEmbedder(apiKey, model string) *huggingFaceEmbedder {
	return &huggingFaceEmbedder{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://api-inference.huggingface.co/pipeline/feature-extraction/" + model,
	}
}

func (e *huggingFaceEmbedder) GetEmbedding(ctx context.Context, text string) <-chan async.Result[[]float32] {
	return async.Go(func() ([]float32, error) {
		request := huggingFaceEmbeddingRequest{Inputs: []string{text}}

		jsonData, err := json.Marshal(request)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", e.url, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("error creating request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+e.apiKey)

		resp, err := e.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("error making request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("error reading response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		// The feature-extraction pipeline returns one vector per input.
		var vectors [][]float32
		if err := json.Unmarshal(body, &vectors); err != nil {
			return nil, fmt.Errorf("error unmarshaling response: %w", err)
		}

		if len(vectors) == 0 {
			return nil, fmt.Errorf("no embedding in response")
		}

		return vectors[0], nil
	})
}

type huggingFaceEmbeddingRequest struct {
	Inputs []string `json:"inputs"`
}
