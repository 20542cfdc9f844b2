package agent

import (
	"context"
	"errors"
	"testing"

	"chatdoc/llm"
	"chatdoc/schema"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProgressReporter records every streamed chunk.
type MockProgressReporter struct {
	events []*schema.AgentStreamChunk
}

func (m *MockProgressReporter) Send(event *schema.AgentStreamChunk) error {
	m.events = append(m.events, event)
	return nil
}

// Mock LLM client with configurable per-turn responses.
type testLLMClient struct {
	model            string
	response         string
	shouldError      bool
	errorMessage     string
	callCount        int
	responses        []string
	toolCallsPerTurn [][]api.ToolCall
}

func (m *testLLMClient) GenerateInference(
	ctx context.Context,
	messages []llm.Message,
	callback func(chunk string) error,
	opts ...llm.LLMOption,
) error {
	return m.GenerateInferenceWithTools(ctx, messages, callback, func([]api.ToolCall) error { return nil }, opts...)
}

func (m *testLLMClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []llm.Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...llm.LLMOption,
) error {
	if m.shouldError {
		return errors.New(m.errorMessage)
	}

	response := m.response
	var toolCalls []api.ToolCall

	if m.callCount < len(m.responses) {
		response = m.responses[m.callCount]
	}
	if m.callCount < len(m.toolCallsPerTurn) {
		toolCalls = m.toolCallsPerTurn[m.callCount]
	}

	m.callCount++

	if len(toolCalls) > 0 {
		return toolCallback(toolCalls)
	}

	return contentCallback(response)
}

func (m *testLLMClient) Capabilities() llm.Capability {
	return llm.NativeToolCalling
}

func (m *testLLMClient) GetModel() string {
	return m.model
}

func echoTool(name string, passages []schema.Passage) MCPTool {
	return NewMCPToolBuilder(name, "Echoes the question for testing.").
		StringParam("question", "Question to echo.", true).
		WithHandler(func(ctx context.Context, params api.ToolCallFunctionArguments) (*schema.ToolOutput, error) {
			question, _ := params["question"].(string)
			return &schema.ToolOutput{Answer: "echo: " + question, SourceDocuments: passages}, nil
		}).
		Build()
}

func TestExecute_DirectAnswer(t *testing.T) {
	mockModel := &testLLMClient{
		model:    "test-model",
		response: "This is the final answer",
	}

	routingAgent := NewAgentBuilder().
		WithModel(mockModel).
		WithSystemPrompt("You are a document assistant").
		WithMaxTokens(1000).
		WithMaxTurns(3).
		Build()

	reporter := &MockProgressReporter{}

	result, err := routingAgent.Execute(t.Context(), reporter, "What is 2+2?", nil)
	require.NoError(t, err)

	assert.Equal(t, "This is the final answer", result.Answer)
	assert.Empty(t, result.IntermediateSteps)

	// History: user question + assistant answer.
	require.Len(t, result.History, 2)
	assert.Equal(t, "user", result.History[0].Role)
	assert.Equal(t, "assistant", result.History[1].Role)

	hasCompleteEvent := false
	for _, event := range reporter.events {
		if event.Complete != nil {
			hasCompleteEvent = true
		}
	}
	assert.True(t, hasCompleteEvent, "Should have sent a StreamComplete event")
}

func TestExecute_ToolCallThenAnswer(t *testing.T) {
	passages := []schema.Passage{schema.NewPassage("quoted text", "Report.pdf", 0)}

	mockModel := &testLLMClient{
		model: "test-model",
		toolCallsPerTurn: [][]api.ToolCall{
			{
				{
					Function: api.ToolCallFunction{
						Name:      "Report",
						Arguments: map[string]any{"question": "what was decided?"},
					},
				},
			},
			{}, // no tool calls in turn 1
		},
		responses: []string{"", "The decision was recorded."},
	}

	routingAgent := NewAgentBuilder().
		WithModel(mockModel).
		WithMaxTokens(1000).
		WithMaxTurns(3).
		AddTool(echoTool("Report", passages)).
		Build()

	reporter := &MockProgressReporter{}

	result, err := routingAgent.Execute(t.Context(), reporter, "what was decided?", nil)
	require.NoError(t, err)

	assert.Equal(t, "The decision was recorded.", result.Answer)

	require.Len(t, result.IntermediateSteps, 1)
	assert.Equal(t, "Report", result.IntermediateSteps[0].ToolCall.Function.Name)
	assert.Equal(t, passages, result.IntermediateSteps[0].Output.SourceDocuments)

	// History: user question, tool result, assistant answer.
	require.Len(t, result.History, 3)
	assert.True(t, result.History[1].IsToolResult)
}

func TestExecute_DoesNotMutateInputHistory(t *testing.T) {
	mockModel := &testLLMClient{
		model:    "test-model",
		response: "Second answer",
	}

	routingAgent := NewAgentBuilder().
		WithModel(mockModel).
		WithMaxTokens(1000).
		WithMaxTurns(3).
		Build()

	history := []llm.Message{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
	}

	result, err := routingAgent.Execute(t.Context(), &MockProgressReporter{}, "second question", history)
	require.NoError(t, err)

	assert.Len(t, history, 2)
	require.Len(t, result.History, 4)
	assert.Equal(t, "first question", result.History[0].Content)
	assert.Equal(t, "Second answer", result.History[3].Content)
}

func TestExecute_UnknownToolFails(t *testing.T) {
	mockModel := &testLLMClient{
		model: "test-model",
		toolCallsPerTurn: [][]api.ToolCall{
			{
				{
					Function: api.ToolCallFunction{
						Name:      "nonexistent",
						Arguments: map[string]any{},
					},
				},
			},
		},
	}

	routingAgent := NewAgentBuilder().
		WithModel(mockModel).
		WithMaxTokens(1000).
		WithMaxTurns(3).
		AddTool(echoTool("Report", nil)).
		Build()

	_, err := routingAgent.Execute(t.Context(), &MockProgressReporter{}, "question", nil)
	assert.Error(t, err)
}

func TestExecute_ToolHandlerErrorAborts(t *testing.T) {
	failingTool := NewMCPToolBuilder("broken", "Always fails.").
		WithHandler(func(ctx context.Context, params api.ToolCallFunctionArguments) (*schema.ToolOutput, error) {
			return nil, errors.New("backend unavailable")
		}).
		Build()

	mockModel := &testLLMClient{
		model: "test-model",
		toolCallsPerTurn: [][]api.ToolCall{
			{
				{
					Function: api.ToolCallFunction{
						Name:      "broken",
						Arguments: map[string]any{},
					},
				},
			},
		},
	}

	routingAgent := NewAgentBuilder().
		WithModel(mockModel).
		WithMaxTokens(1000).
		WithMaxTurns(3).
		AddTool(failingTool).
		Build()

	reporter := &MockProgressReporter{}

	_, err := routingAgent.Execute(t.Context(), reporter, "question", nil)
	require.Error(t, err)

	hasErrorEvent := false
	for _, event := range reporter.events {
		if event.Error != nil {
			hasErrorEvent = true
		}
	}
	assert.True(t, hasErrorEvent, "Should have sent a StreamError event")
}

func TestExecute_LLMErrorPropagates(t *testing.T) {
	mockModel := &testLLMClient{
		model:        "test-model",
		shouldError:  true,
		errorMessage: "LLM service unavailable",
	}

	routingAgent := NewAgentBuilder().
		WithModel(mockModel).
		WithMaxTokens(1000).
		WithMaxTurns(3).
		Build()

	_, err := routingAgent.Execute(t.Context(), &MockProgressReporter{}, "question", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM service unavailable")
}

func TestExecute_MaxTurnsStopsToolLoop(t *testing.T) {
	// Model that issues a tool call every turn.
	mockModel := &testLLMClient{
		model: "test-model",
		toolCallsPerTurn: [][]api.ToolCall{
			{{Function: api.ToolCallFunction{Name: "Report", Arguments: map[string]any{"question": "again"}}}},
			{{Function: api.ToolCallFunction{Name: "Report", Arguments: map[string]any{"question": "again"}}}},
		},
		response: "Answer after the loop",
	}

	routingAgent := NewAgentBuilder().
		WithModel(mockModel).
		WithMaxTokens(1000).
		WithMaxTurns(2).
		AddTool(echoTool("Report", nil)).
		Build()

	result, err := routingAgent.Execute(t.Context(), &MockProgressReporter{}, "question", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, mockModel.callCount)
	assert.Len(t, result.IntermediateSteps, 2)
}
