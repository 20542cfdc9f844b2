// Package embed provides text-embedding clients behind a single capability
// interface. The vendor set is closed: unknown vendor tags are rejected at
// construction, never at embedding time.
package embed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/SaiNageswarS/go-collection-boot/async"
)

// Embedder turns a piece of text into a dense vector.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) <-chan async.Result[[]float32]
}

// Vendor is a tag identifying a supported embedding backend.
type Vendor string

const (
	VendorOpenAI      Vendor = "openai"
	VendorHuggingFace Vendor = "huggingface"
	VendorOllama      Vendor = "ollama"
)

var (
	ErrUnknownVendor = errors.New("embed: unknown embedding vendor")
	ErrMissingAPIKey = errors.New("embed: missing API key")
)

// ParseVendor validates a vendor tag read from configuration.
func ParseVendor(name string) (Vendor, error) {
	switch Vendor(name) {
	case VendorOpenAI, VendorHuggingFace, VendorOllama:
		return Vendor(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVendor, name)
	}
}

// Provide constructs the embedder for the given vendor and model. Credential
// problems are reported here, once, at startup.
func Provide(vendor Vendor, model string) (Embedder, error) {
	switch vendor {
	case VendorOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrMissingAPIKey)
		}
		return newOpenAIEmbedder(apiKey, model), nil
	case VendorHuggingFace:
		apiKey := os.Getenv("HUGGINGFACE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: HUGGINGFACE_API_KEY is not set", ErrMissingAPIKey)
		}
		return newHuggingFaceEmbedder(apiKey, model), nil
	case VendorOllama:
		return newOllamaEmbedder(model)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, vendor)
	}
}
