// Package session maintains the per-session finalized-answer record and keeps
// its derived message count consistent with the conversation message log.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatdoc/db"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound means finalize or repair was called for a session
	// that was never started. That is a programming error in the caller, not
	// a recoverable condition.
	ErrSessionNotFound = errors.New("session: no record found for session id")

	// ErrCountUnavailable means the message-log count query itself failed,
	// as opposed to returning a valid count of zero.
	ErrCountUnavailable = errors.New("session: message count unavailable")
)

// RecordStore is the session-record persistence this package owns. FindOne
// returns (nil, nil) when no record exists.
type RecordStore interface {
	FindOne(ctx context.Context, sessionID string) (*db.SessionRecordModel, error)
	Save(ctx context.Context, record db.SessionRecordModel) error
}

// MessageCounter reads the foreign message log, solely to count rows for a
// session.
type MessageCounter interface {
	CountForSession(ctx context.Context, sessionID string) (int64, error)
}

// Reconciler owns all writes to the session record store. The message log
// and the record store are updated independently; a crash between the two
// finalize updates leaves NumberOfMessages at -1 until a repair pass runs.
type Reconciler struct {
	records RecordStore
	counter MessageCounter
}

func NewReconciler(records RecordStore, counter MessageCounter) *Reconciler {
	return &Reconciler{records: records, counter: counter}
}

// StartOrResume ensures a fresh record exists for the session. Re-starting a
// live session resets it in place: the prior finalized answer is cleared, not
// preserved. Callers wanting resume-without-reset must not call this twice.
func (r *Reconciler) StartOrResume(ctx context.Context, sessionID string) error {
	existing, err := r.records.FindOne(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("looking up session record: %w", err)
	}

	if existing == nil {
		logger.Info("Starting new session", zap.String("sessionId", sessionID))
	} else {
		logger.Info("Restarting session, clearing prior state", zap.String("sessionId", sessionID))
	}

	return r.records.Save(ctx, db.NewSessionRecord(sessionID, time.Now().UnixMilli()))
}

// Finalize stores the final answer and end time, then separately reconciles
// the message count from the message log. The two writes are independent
// transactions; the count write failing leaves a valid record with
// NumberOfMessages == -1.
func (r *Reconciler) Finalize(ctx context.Context, sessionID string, finalAnswer bson.M) error {
	record, err := r.records.FindOne(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("looking up session record: %w", err)
	}
	if record == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	now := time.Now().UnixMilli()
	record.FinalAnswer = finalAnswer
	record.EndTime = &now
	if err := r.records.Save(ctx, *record); err != nil {
		return fmt.Errorf("saving final answer: %w", err)
	}

	return r.reconcile(ctx, record)
}

// ReconcileMessageCount recomputes NumberOfMessages from the message log. It
// is idempotent and may run at any time to repair a record left unreconciled
// by a crash between the two finalize updates.
func (r *Reconciler) ReconcileMessageCount(ctx context.Context, sessionID string) error {
	record, err := r.records.FindOne(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("looking up session record: %w", err)
	}
	if record == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return r.reconcile(ctx, record)
}

func (r *Reconciler) reconcile(ctx context.Context, record *db.SessionRecordModel) error {
	count, err := r.counter.CountForSession(ctx, record.SessionID)
	if err != nil {
		logger.Error("Message count query failed, record stays unreconciled",
			zap.String("sessionId", record.SessionID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCountUnavailable, err)
	}

	record.NumberOfMessages = int(count)
	if err := r.records.Save(ctx, *record); err != nil {
		return fmt.Errorf("saving message count: %w", err)
	}

	return nil
}
