package doctools

import (
	"context"
	"testing"

	"chatdoc/schema"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	invokedWith []string
	output      *schema.ToolOutput
}

func (r *fakeRunner) Invoke(_ context.Context, displayName, question string) (*schema.ToolOutput, error) {
	r.invokedWith = append(r.invokedWith, displayName+"|"+question)
	if r.output != nil {
		return r.output, nil
	}
	return &schema.ToolOutput{Answer: "ok", SourceDocuments: []schema.Passage{}}, nil
}

func TestBuildToolsOnePerDocument(t *testing.T) {
	runner := &fakeRunner{}
	tools, err := BuildTools(map[string]string{
		"Report_2023-01-05.pdf":   "/tmp/s1/Report_2023-01-05.pdf",
		"Notulen (concept).docx":  "/tmp/s1/Notulen (concept).docx",
	}, runner)

	require.NoError(t, err)
	require.Len(t, tools, 2)

	// Ordered by filename, names sanitized for the tool-calling runtime.
	assert.Equal(t, "Notulen--concept-", tools[0].Function.Name)
	assert.Equal(t, "Report", tools[1].Function.Name)
	assert.Contains(t, tools[1].Function.Description, "Report")
	assert.Contains(t, tools[1].Function.Parameters.Required, "question")
}

func TestBuildToolsCollisionFailsLoudly(t *testing.T) {
	_, err := BuildTools(map[string]string{
		"Report_2023-01-05.pdf": "/tmp/a",
		"Report.pdf":            "/tmp/b",
	}, &fakeRunner{})

	assert.ErrorIs(t, err, ErrToolNameCollision)
}

func TestDocumentToolInvokesRunner(t *testing.T) {
	runner := &fakeRunner{}
	tools, err := BuildTools(map[string]string{"Budget_2024-03-01.xlsx": "/tmp/b"}, runner)
	require.NoError(t, err)

	out, err := tools[0].Handler(t.Context(), api.ToolCallFunctionArguments{"question": "what is the total?"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Answer)
	assert.Equal(t, []string{"Budget|what is the total?"}, runner.invokedWith)
}

// An empty retrieval result is a valid tool output, not an error.
func TestDocumentToolEmptyResultIsValid(t *testing.T) {
	runner := &fakeRunner{output: &schema.ToolOutput{Answer: "No relevant passages found in Budget.", SourceDocuments: []schema.Passage{}}}
	tools, err := BuildTools(map[string]string{"Budget.xlsx": "/tmp/b"}, runner)
	require.NoError(t, err)

	out, err := tools[0].Handler(t.Context(), api.ToolCallFunctionArguments{"question": "anything?"})
	require.NoError(t, err)
	assert.Empty(t, out.SourceDocuments)
}

func TestDocumentToolRequiresQuestion(t *testing.T) {
	tools, err := BuildTools(map[string]string{"Doc.pdf": "/tmp/d"}, &fakeRunner{})
	require.NoError(t, err)

	_, err = tools[0].Handler(t.Context(), api.ToolCallFunctionArguments{})
	assert.Error(t, err)
}
