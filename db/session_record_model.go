package db

import "go.mongodb.org/mongo-driver/v2/bson"

// CountNotReconciled is the NumberOfMessages value of a record whose message
// count has not been computed from the message log yet. A finalized record
// can legitimately carry it after a crash between the two finalize updates;
// a repair pass recomputes the real count later.
const CountNotReconciled = -1

// SessionRecordModel is the finalized-answer record of one user session.
// One record per session id, upsert semantics.
type SessionRecordModel struct {
	SessionID        string `bson:"_id"`
	StartTime        int64  `bson:"startTime"` // unix millis
	EndTime          *int64 `bson:"endTime"`   // nil until finalized
	FinalAnswer      bson.M `bson:"finalAnswer"`
	NumberOfMessages int    `bson:"numberOfMessages"`
}

// NewSessionRecord returns the fresh state a session record takes on start
// and on re-start.
func NewSessionRecord(sessionID string, now int64) SessionRecordModel {
	return SessionRecordModel{
		SessionID:        sessionID,
		StartTime:        now,
		EndTime:          nil,
		FinalAnswer:      bson.M{},
		NumberOfMessages: CountNotReconciled,
	}
}

func (m SessionRecordModel) Id() string { return m.SessionID }

func (m SessionRecordModel) CollectionName() string { return "final_answers" }
