package agent

import (
	"context"
	"strings"

	"chatdoc/llm"
	"chatdoc/schema"

	"github.com/ollama/ollama/api"
)

// Execute resolves one prompt in turn-based mode with native tool calling.
// The passed history is not mutated; the returned Result carries the new
// history so the caller commits it only on success.
func (a *Agent) Execute(ctx context.Context, reporter ProgressReporter, question string, history []llm.Message) (*Result, error) {
	startTime := getCurrentTimeMs()

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: question})

	var steps []IntermediateStep
	toolsUsed := []string{}

	var inference string
	var toolCalls []api.ToolCall
	var err error

	for turns := 0; turns < a.config.MaxTurns; turns++ {
		inference, toolCalls, err = a.runLLM(ctx, msgs, reporter)
		if err != nil {
			reporter.Send(NewStreamError(err.Error(), "inference_failed"))
			return nil, err
		}

		// Final answer generated.
		if len(toolCalls) == 0 {
			break
		}

		for _, toolCall := range toolCalls {
			step, err := a.RunTool(ctx, reporter, &toolCall)
			if err != nil {
				return nil, err
			}

			steps = append(steps, *step)
			toolsUsed = append(toolsUsed, toolCall.Function.Name)

			msgs = append(msgs, llm.Message{
				Role:         "user",
				Content:      formatToolResult(toolCall.Function.Name, step.Output),
				IsToolResult: true,
			})
		}
	}

	msgs = append(msgs, llm.Message{Role: "assistant", Content: inference})

	reporter.Send(NewStreamComplete(&schema.StreamComplete{
		Answer:         inference,
		ToolsUsed:      toolsUsed,
		ProcessingTime: getCurrentTimeMs() - startTime,
		Metadata:       map[string]string{"model": a.config.Model.GetModel()},
	}))

	return &Result{
		Answer:            inference,
		History:           msgs,
		IntermediateSteps: steps,
	}, nil
}

func (a *Agent) runLLM(ctx context.Context, msgs []llm.Message, reporter ProgressReporter) (string, []api.ToolCall, error) {
	var inference strings.Builder
	var toolCalls []api.ToolCall

	err := a.config.Model.GenerateInferenceWithTools(
		ctx, msgs,
		func(chunk string) error {
			inference.WriteString(chunk)
			if len(toolCalls) == 0 {
				reporter.Send(NewAnswerChunk(&schema.AnswerChunk{Content: chunk}))
			}
			return nil
		},
		func(calls []api.ToolCall) error {
			toolCalls = append(toolCalls, calls...)
			return nil
		},
		llm.WithTools(toAPITools(a.config.Tools)),
		llm.WithMaxTokens(a.config.MaxTokens),
		llm.WithSystemPrompt(a.config.SystemPrompt),
	)

	return inference.String(), toolCalls, err
}
