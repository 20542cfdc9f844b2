package embed

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/ollama/ollama/api"
)

type ollamaEmbedder struct {
	client *api.Client
	model  string
}

func newOllamaEmbedder(model string) (*ollamaEmbedder, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, err
	}

	return &ollamaEmbedder{client: client, model: model}, nil
}

func (e *ollamaEmbedder) GetEmbedding(ctx context.Context, text string) <-chan async.Result[[]float32] {
	return async.Go(func() ([]float32, error) {
		req := &api.EmbeddingRequest{
			Model:     e.model,
			Prompt:    text,
			KeepAlive: &api.Duration{Duration: 60 * time.Minute}, // keep model loaded between calls
		}

		resp, err := e.client.Embeddings(ctx, req)
		if err != nil {
			return nil, err
		}

		emb64 := resp.Embedding // []float64
		emb32 := make([]float32, len(emb64))
		for i, v := range emb64 {
			emb32[i] = float32(v)
		}
		return emb32, nil
	})
}
