package session

import (
	"context"
	"errors"

	"chatdoc/db"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// OdmRecordStore backs RecordStore with the tenant's session-record
// collection.
type OdmRecordStore struct {
	collection odm.OdmCollectionInterface[db.SessionRecordModel]
}

func NewOdmRecordStore(mongo odm.MongoClient, tenant string) *OdmRecordStore {
	return &OdmRecordStore{
		collection: odm.CollectionOf[db.SessionRecordModel](mongo, tenant),
	}
}

func (s *OdmRecordStore) FindOne(ctx context.Context, sessionID string) (*db.SessionRecordModel, error) {
	record, err := async.Await(s.collection.FindOneByID(ctx, sessionID))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (s *OdmRecordStore) Save(ctx context.Context, record db.SessionRecordModel) error {
	_, err := async.Await(s.collection.Save(ctx, record))
	return err
}
