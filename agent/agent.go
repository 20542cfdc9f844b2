package agent

import (
	"context"

	"chatdoc/llm"
	"chatdoc/schema"

	"github.com/ollama/ollama/api"
)

// AgentConfig holds configuration for the routing agent.
type AgentConfig struct {
	Model        llm.LLMClient
	SystemPrompt string
	Tools        []MCPTool
	MaxTokens    int
	MaxTurns     int
}

// Agent routes a question to the document tools the model chooses to call
// and synthesizes a single answer from their results.
type Agent struct {
	config AgentConfig
}

func NewAgent(config AgentConfig) *Agent {
	return &Agent{config: config}
}

// MCPTool wraps an api.Tool and provides a handler for execution. Handlers
// return a structured output so callers can harvest the source passages each
// invocation was grounded on.
type MCPTool struct {
	api.Tool
	Handler func(ctx context.Context, params api.ToolCallFunctionArguments) (*schema.ToolOutput, error)
}

// IntermediateStep records one tool invocation performed while resolving a
// single prompt, paired with what the tool returned.
type IntermediateStep struct {
	ToolCall api.ToolCall
	Output   *schema.ToolOutput
}

// Result is the outcome of resolving one prompt: the synthesized answer, the
// message history to carry into the next turn, and every tool step taken.
type Result struct {
	Answer            string
	History           []llm.Message
	IntermediateSteps []IntermediateStep
}
