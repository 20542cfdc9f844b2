package schema

// Stage identifies the phase of agent execution a progress update refers to.
type Stage string

const (
	StageToolSelection          Stage = "tool_selection"
	StageToolExecutionStarting  Stage = "tool_execution_starting"
	StageToolExecutionCompleted Stage = "tool_execution_completed"
	StageGeneratingAnswer       Stage = "generating_answer"
)

// ProgressUpdateChunk reports a stage transition during agent execution.
type ProgressUpdateChunk struct {
	Stage     Stage  `json:"stage"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

// AnswerChunk carries a streamed fragment of the final answer.
type AnswerChunk struct {
	Content string `json:"content"`
}

// StreamError reports a failed stage with a machine-readable code.
type StreamError struct {
	ErrorMessage string `json:"error_message"`
	ErrorCode    string `json:"error_code"`
}

// StreamComplete is the terminal chunk of an agent run.
type StreamComplete struct {
	Answer         string            `json:"answer"`
	ToolsUsed      []string          `json:"tools_used"`
	ProcessingTime int64             `json:"processing_time"`
	Metadata       map[string]string `json:"metadata"`
}

// AgentStreamChunk is a tagged union over the chunk kinds above; exactly one
// field is non-nil.
type AgentStreamChunk struct {
	ProgressUpdate *ProgressUpdateChunk `json:"progress_update,omitempty"`
	Answer         *AnswerChunk         `json:"answer,omitempty"`
	Error          *StreamError         `json:"error,omitempty"`
	Complete       *StreamComplete      `json:"complete,omitempty"`
}
