// Package retrieval implements the per-document question-answering pipeline:
// hybrid search over a document's chunks followed by grounded answer
// generation.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"

	"chatdoc/db"
	"chatdoc/llm"
	"chatdoc/prompts"
	"chatdoc/schema"

	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/linq"
)

// Searcher finds the chunks of one document relevant to a query.
type Searcher interface {
	Search(ctx context.Context, displayName, query string) ([]*db.ChunkModel, error)
}

// Chain answers a question against a single document. Repeated invocations
// are independent; the conversational memory lives with the caller.
type Chain struct {
	searcher  Searcher
	llmClient llm.LLMClient
}

func NewChain(searcher Searcher, llmClient llm.LLMClient) *Chain {
	return &Chain{searcher: searcher, llmClient: llmClient}
}

// Invoke runs retrieval and answer generation for one document. Finding no
// relevant passages is a valid outcome, not an error: the output then carries
// an empty passage list.
func (c *Chain) Invoke(ctx context.Context, displayName, question string) (*schema.ToolOutput, error) {
	chunks, err := c.searcher.Search(ctx, displayName, question)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", displayName, err)
	}

	if len(chunks) == 0 {
		return &schema.ToolOutput{
			Answer:          fmt.Sprintf("No relevant passages found in %s.", displayName),
			SourceDocuments: []schema.Passage{},
		}, nil
	}

	passages := linq.Map(chunks, func(chunk *db.ChunkModel) schema.Passage {
		return schema.NewPassage(chunk.Body, chunk.SourceURI, chunk.Page)
	})

	passagesJson, err := json.Marshal(passages)
	if err != nil {
		return nil, fmt.Errorf("marshaling passages: %w", err)
	}

	answer, err := async.Await(prompts.GenerateAnswer(ctx, c.llmClient, displayName, question, string(passagesJson)))
	if err != nil {
		return nil, fmt.Errorf("generating answer for %s: %w", displayName, err)
	}

	return &schema.ToolOutput{
		Answer:          answer,
		SourceDocuments: passages,
	}, nil
}
