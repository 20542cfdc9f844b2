package agent

import (
	"context"
	"fmt"

	"chatdoc/schema"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// RunTool executes one tool call chosen by the model. A failing tool aborts
// the whole prompt resolution: partial evidence must not leak into citations.
func (a *Agent) RunTool(ctx context.Context, reporter ProgressReporter, toolCall *api.ToolCall) (*IntermediateStep, error) {
	name := toolCall.Function.Name

	reporter.Send(NewProgressUpdate(
		schema.StageToolExecutionStarting,
		fmt.Sprintf("Running tool %s with arguments: %v", name, toolCall.Function.Arguments)))

	tool := findMCPToolByName(a.config.Tools, name)
	if tool == nil {
		err := fmt.Errorf("model requested unknown tool %q", name)
		reporter.Send(NewStreamError(err.Error(), "unknown_tool"))
		return nil, err
	}

	output, err := tool.Handler(ctx, toolCall.Function.Arguments)
	if err != nil {
		logger.Error("Tool execution failed", zap.String("tool", name), zap.Error(err))
		reporter.Send(NewStreamError(err.Error(), "tool_execution_failed"))
		return nil, err
	}

	reporter.Send(NewProgressUpdate(
		schema.StageToolExecutionCompleted,
		fmt.Sprintf("Tool %s completed successfully", name)))

	return &IntermediateStep{ToolCall: *toolCall, Output: output}, nil
}

// formatToolResult renders a tool output as context for the next model turn.
func formatToolResult(toolName string, output *schema.ToolOutput) string {
	return fmt.Sprintf("Result from %s:\n\n%s", toolName, output.Answer)
}
