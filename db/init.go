package db

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/odm"
)

// InitChatdocDB ensures the collections and indexes this module owns exist
// for a tenant. The message log is foreign-owned and deliberately absent.
func InitChatdocDB(ctx context.Context, mongo odm.MongoClient, tenant string) error {
	if err := odm.EnsureIndexes[ChunkModel](ctx, mongo, tenant); err != nil {
		return err
	}

	if err := odm.EnsureIndexes[ChunkAnnModel](ctx, mongo, tenant); err != nil {
		return err
	}

	if err := odm.EnsureIndexes[SessionRecordModel](ctx, mongo, tenant); err != nil {
		return err
	}

	return nil
}
