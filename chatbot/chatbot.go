// Package chatbot is the conversational front of the retrieval agent: it
// resolves each prompt through the document tools, reduces the evidence to
// citations, and keeps the session transcript.
package chatbot

import (
	"context"

	"chatdoc/agent"
	"chatdoc/citation"
	"chatdoc/llm"
	"chatdoc/memory"
	"chatdoc/schema"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"go.uber.org/zap"
)

// Turn is one exported prompt/answer exchange. The transcript is append-only
// and chronological; the per-message roles live in the message log.
type Turn struct {
	Prompt    string              `json:"prompt"`
	Answer    string              `json:"answer"`
	Citations []citation.Citation `json:"citations"`
}

// PromptResult is what one SendPrompt call returns.
type PromptResult struct {
	Answer      string              `json:"answer"`
	Citations   []citation.Citation `json:"citations"`
	ChatHistory []Turn              `json:"chat_history"`
}

// Chatbot routes prompts for one session. It is not safe for concurrent
// SendPrompt calls; use one instance per active session.
type Chatbot struct {
	agent     *agent.Agent
	reporter  agent.ProgressReporter
	log       *memory.MessageLog
	sessionID string
	withProof bool

	history    []llm.Message // raw agent history, opaque bookkeeping
	transcript []Turn        // exported chat history
}

func New(routingAgent *agent.Agent, reporter agent.ProgressReporter, log *memory.MessageLog, sessionID string, withProof bool) *Chatbot {
	if reporter == nil {
		reporter = &agent.NoOpProgressReporter{}
	}

	return &Chatbot{
		agent:     routingAgent,
		reporter:  reporter,
		log:       log,
		sessionID: sessionID,
		withProof: withProof,
	}
}

// SendPrompt resolves one prompt: the agent picks and runs document tools,
// the passages from every tool step are reduced to citations, and the turn is
// appended to the transcript. On any failure nothing is committed: the
// transcript and agent history are exactly as they were before the call.
func (c *Chatbot) SendPrompt(ctx context.Context, prompt string) (*PromptResult, error) {
	result, err := c.agent.Execute(ctx, c.reporter, prompt, c.history)
	if err != nil {
		return nil, err
	}

	passages := linq.Flatten(linq.Map(result.IntermediateSteps, func(step agent.IntermediateStep) []schema.Passage {
		return step.Output.SourceDocuments
	}))

	citations, err := citation.Dedup(passages, c.withProof)
	if err != nil {
		return nil, err
	}

	// Commit point: both history buffers mutate together, only on success.
	c.history = result.History
	c.transcript = append(c.transcript, Turn{
		Prompt:    prompt,
		Answer:    result.Answer,
		Citations: citations,
	})

	c.appendToMessageLog(ctx, prompt, result.Answer, citations)

	return &PromptResult{
		Answer:      result.Answer,
		Citations:   citations,
		ChatHistory: c.ChatHistory(),
	}, nil
}

// ChatHistory returns a copy of the exported transcript so far.
func (c *Chatbot) ChatHistory() []Turn {
	history := make([]Turn, len(c.transcript))
	copy(history, c.transcript)
	return history
}

// The message log is durable bookkeeping owned by the memory subsystem; a
// failed append is logged but does not fail an already-answered prompt. The
// session reconciler recounts from whatever made it into the log.
func (c *Chatbot) appendToMessageLog(ctx context.Context, prompt, answer string, citations []citation.Citation) {
	if c.log == nil {
		return
	}

	if err := c.log.AddUserMessage(ctx, c.sessionID, prompt); err != nil {
		logger.Error("Failed to log user message", zap.String("sessionId", c.sessionID), zap.Error(err))
		return
	}
	if err := c.log.AddBotMessage(ctx, c.sessionID, answer, citations); err != nil {
		logger.Error("Failed to log bot message", zap.String("sessionId", c.sessionID), zap.Error(err))
	}
}
