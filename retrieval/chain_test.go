package retrieval

import (
	"context"
	"errors"
	"testing"

	"chatdoc/db"
	"chatdoc/llm"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	chunks      []*db.ChunkModel
	err         error
	lastDisplay string
	lastQuery   string
}

func (f *fakeSearcher) Search(ctx context.Context, displayName, query string) ([]*db.ChunkModel, error) {
	f.lastDisplay = displayName
	f.lastQuery = query
	return f.chunks, f.err
}

type cannedLLMClient struct {
	answer       string
	err          error
	lastMessages []llm.Message
}

func (c *cannedLLMClient) GenerateInference(ctx context.Context, messages []llm.Message, callback func(chunk string) error, opts ...llm.LLMOption) error {
	c.lastMessages = messages
	if c.err != nil {
		return c.err
	}
	return callback(c.answer)
}

func (c *cannedLLMClient) GenerateInferenceWithTools(ctx context.Context, messages []llm.Message, contentCallback func(chunk string) error, toolCallback func(toolCalls []api.ToolCall) error, opts ...llm.LLMOption) error {
	return c.GenerateInference(ctx, messages, contentCallback, opts...)
}

func (c *cannedLLMClient) Capabilities() llm.Capability { return 0 }
func (c *cannedLLMClient) GetModel() string             { return "canned-model" }

func TestChainInvoke_AnswersWithPassages(t *testing.T) {
	searcher := &fakeSearcher{chunks: []*db.ChunkModel{
		{ChunkID: "c1", SourceURI: "Report_2023-01-05.pdf", DisplayName: "Report", Page: 0, Body: "Revenue grew."},
		{ChunkID: "c2", SourceURI: "Report_2023-01-05.pdf", DisplayName: "Report", Page: 3, Body: "Costs fell."},
	}}
	model := &cannedLLMClient{answer: "Revenue grew while costs fell."}

	chain := NewChain(searcher, model)

	out, err := chain.Invoke(t.Context(), "Report", "how did the business do?")
	require.NoError(t, err)

	assert.Equal(t, "Report", searcher.lastDisplay)
	assert.Equal(t, "how did the business do?", searcher.lastQuery)

	assert.Equal(t, "Revenue grew while costs fell.", out.Answer)
	require.Len(t, out.SourceDocuments, 2)
	assert.Equal(t, "Revenue grew.", out.SourceDocuments[0].Text)
	assert.Equal(t, "Report_2023-01-05.pdf", out.SourceDocuments[0].Source)
	assert.Equal(t, 3, out.SourceDocuments[1].Page)

	// Retrieved passages reach the model as grounding context.
	require.NotEmpty(t, model.lastMessages)
	assert.Contains(t, model.lastMessages[len(model.lastMessages)-1].Content, "Revenue grew.")
}

func TestChainInvoke_NoHitsIsNotAnError(t *testing.T) {
	chain := NewChain(&fakeSearcher{}, &cannedLLMClient{answer: "should not be called"})

	out, err := chain.Invoke(t.Context(), "Report", "anything?")
	require.NoError(t, err)

	assert.Equal(t, "No relevant passages found in Report.", out.Answer)
	assert.Empty(t, out.SourceDocuments)
}

func TestChainInvoke_SearchErrorPropagates(t *testing.T) {
	chain := NewChain(&fakeSearcher{err: errors.New("index offline")}, &cannedLLMClient{})

	_, err := chain.Invoke(t.Context(), "Report", "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index offline")
}

func TestChainInvoke_LLMErrorPropagates(t *testing.T) {
	searcher := &fakeSearcher{chunks: []*db.ChunkModel{
		{ChunkID: "c1", SourceURI: "Report.pdf", DisplayName: "Report", Page: 0, Body: "text"},
	}}
	chain := NewChain(searcher, &cannedLLMClient{err: errors.New("model unavailable")})

	_, err := chain.Invoke(t.Context(), "Report", "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}
