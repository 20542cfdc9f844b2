package agent

import (
	"time"

	"chatdoc/schema"

	"google.golang.org/grpc"
)

// ProgressReporter is an interface for reporting agent execution progress
type ProgressReporter interface {
	// Send sends a progress update
	Send(event *schema.AgentStreamChunk) error
}

// NoOpProgressReporter implements ProgressReporter with no-op operations
type NoOpProgressReporter struct{}

// Send does nothing
func (r *NoOpProgressReporter) Send(event *schema.AgentStreamChunk) error {
	return nil
}

// GrpcProgressReporter implements ProgressReporter for gRPC streaming
type GrpcProgressReporter struct {
	Stream grpc.ServerStreamingServer[schema.AgentStreamChunk]
}

func (r *GrpcProgressReporter) Send(event *schema.AgentStreamChunk) error {
	return r.Stream.Send(event)
}

// Helper functions for creating progress events
func NewProgressUpdate(stage schema.Stage, message string) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{
		ProgressUpdate: &schema.ProgressUpdateChunk{
			Stage:     stage,
			Timestamp: time.Now().UnixMilli(),
			Message:   message,
		},
	}
}

// NewAnswerChunk creates an AnswerChunk
func NewAnswerChunk(answerChunk *schema.AnswerChunk) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{
		Answer: answerChunk,
	}
}

// NewStreamComplete creates a StreamComplete chunk
func NewStreamComplete(finalResponse *schema.StreamComplete) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{
		Complete: finalResponse,
	}
}

// NewStreamError creates a StreamError chunk
func NewStreamError(message, code string) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{
		Error: &schema.StreamError{
			ErrorMessage: message,
			ErrorCode:    code,
		},
	}
}
