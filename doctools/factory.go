// Package doctools turns each uploaded document into a uniquely-named
// retrieval tool callable by the routing agent.
package doctools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"chatdoc/agent"
	"chatdoc/docname"
	"chatdoc/schema"

	"github.com/ollama/ollama/api"
)

// ErrToolNameCollision means two documents sanitize to the same tool name.
// Registering both would let one silently shadow the other, so construction
// fails and the caller must rename or skip a document.
var ErrToolNameCollision = errors.New("doctools: documents collide on sanitized tool name")

// QARunner answers a question against a single document, identified by its
// display name.
type QARunner interface {
	Invoke(ctx context.Context, displayName, question string) (*schema.ToolOutput, error)
}

// BuildTools builds one retrieval tool per uploaded document. The documents
// map filename to its stored content handle; tools come back ordered by
// filename so registration is deterministic.
func BuildTools(documents map[string]string, runner QARunner) ([]agent.MCPTool, error) {
	fileNames := make([]string, 0, len(documents))
	for fileName := range documents {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	tools := make([]agent.MCPTool, 0, len(fileNames))
	claimed := make(map[string]string, len(fileNames)) // tool name -> filename that claimed it

	for _, fileName := range fileNames {
		displayName := docname.DisplayName(fileName)
		toolName := docname.SanitizeToolName(displayName)

		if prior, taken := claimed[toolName]; taken {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrToolNameCollision, prior, fileName, toolName)
		}
		claimed[toolName] = fileName

		tools = append(tools, newDocumentTool(toolName, displayName, runner))
	}

	return tools, nil
}

func newDocumentTool(toolName, displayName string, runner QARunner) agent.MCPTool {
	return agent.NewMCPToolBuilder(
		toolName,
		fmt.Sprintf("useful when you want to answer questions about %s", displayName),
	).
		StringParam("question", "the question to answer against this document", true).
		WithHandler(func(ctx context.Context, params api.ToolCallFunctionArguments) (*schema.ToolOutput, error) {
			question, ok := params["question"].(string)
			if !ok || question == "" {
				return nil, fmt.Errorf("tool %s invoked without a question", toolName)
			}
			return runner.Invoke(ctx, displayName, question)
		}).
		Build()
}
