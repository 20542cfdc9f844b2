// Package memory owns the append-only conversation message log. Other
// subsystems may read it (the session reconciler counts its rows) but only
// this package writes to it.
package memory

import (
	"context"
	"time"

	"chatdoc/citation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// MessageModel is one append-only row in the message log.
type MessageModel struct {
	ID        string              `bson:"_id"`
	SessionID string              `bson:"sessionId"`
	Role      string              `bson:"role"` // "user" or "bot"
	Content   string              `bson:"content"`
	Citations []citation.Citation `bson:"citations,omitempty"`
	CreatedOn int64               `bson:"createdOn"`
}

// MessageLog appends conversation messages for a session. The log lives in
// its own store, updated independently of the session record store.
type MessageLog struct {
	messages *mongo.Collection
}

func NewMessageLog(client *mongo.Client, tenant string) *MessageLog {
	return &MessageLog{
		messages: client.Database(tenant).Collection("messages"),
	}
}

func (l *MessageLog) AddUserMessage(ctx context.Context, sessionID, content string) error {
	return l.append(ctx, MessageModel{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      RoleUser,
		Content:   content,
		CreatedOn: time.Now().UnixMilli(),
	})
}

func (l *MessageLog) AddBotMessage(ctx context.Context, sessionID, content string, citations []citation.Citation) error {
	return l.append(ctx, MessageModel{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      RoleBot,
		Content:   content,
		Citations: citations,
		CreatedOn: time.Now().UnixMilli(),
	})
}

func (l *MessageLog) append(ctx context.Context, msg MessageModel) error {
	_, err := l.messages.InsertOne(ctx, msg)
	return err
}

// CountForSession returns the exact number of logged messages for a session.
// Zero is a valid count; only a failed query is an error.
func (l *MessageLog) CountForSession(ctx context.Context, sessionID string) (int64, error) {
	return l.messages.CountDocuments(ctx, bson.M{"sessionId": sessionID})
}
