package ingest

import (
	"context"
	"fmt"

	"chatdoc/db"
	"chatdoc/embed"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// Indexer writes document chunks and their embeddings into the per-tenant
// chunk stores. Saves go through the typed collections; bulk deletes go
// through the raw driver.
type Indexer struct {
	mongo    odm.MongoClient
	raw      *mongo.Client
	embedder embed.Embedder
	chunker  *MarkdownChunker
}

func ProvideIndexer(mongoClient odm.MongoClient, raw *mongo.Client, embedder embed.Embedder) *Indexer {
	return &Indexer{
		mongo:    mongoClient,
		raw:      raw,
		embedder: embedder,
		chunker:  ProvideMarkdownChunker(),
	}
}

// IndexDocument chunks one document, embeds every chunk and saves both the
// chunk rows and their ANN rows. It returns the ids of the saved chunks.
func (s *Indexer) IndexDocument(ctx context.Context, tenant, fileName string, content []byte) ([]string, error) {
	chunks, err := s.chunker.ChunkDocument(ctx, fileName, content)
	if err != nil {
		return nil, err
	}

	chunkCollection := odm.CollectionOf[db.ChunkModel](s.mongo, tenant)
	annCollection := odm.CollectionOf[db.ChunkAnnModel](s.mongo, tenant)

	chunkIds := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := async.Await(s.embedder.GetEmbedding(ctx, chunk.Body))
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %s: %w", chunk.ChunkID, err)
		}

		if _, err := async.Await(chunkCollection.Save(ctx, chunk)); err != nil {
			return nil, fmt.Errorf("failed to save chunk %s: %w", chunk.ChunkID, err)
		}

		chunkAnn := db.ChunkAnnModel{
			ChunkID:   chunk.ChunkID,
			Embedding: bson.NewVector(embedding),
		}
		if _, err := async.Await(annCollection.Save(ctx, chunkAnn)); err != nil {
			return nil, fmt.Errorf("failed to save chunk embedding %s: %w", chunk.ChunkID, err)
		}

		chunkIds = append(chunkIds, chunk.ChunkID)
	}

	logger.Info("Indexed document",
		zap.String("fileName", fileName),
		zap.Int("chunks", len(chunkIds)))

	return chunkIds, nil
}

// DeleteDocument removes a document's chunks and their embeddings. Deleting a
// document that was never indexed is not an error.
func (s *Indexer) DeleteDocument(ctx context.Context, tenant, fileName string) error {
	chunkCollection := odm.CollectionOf[db.ChunkModel](s.mongo, tenant)

	chunks, err := async.Await(chunkCollection.Find(ctx, bson.M{"sourceUri": fileName}, nil, 0, 0))
	if err != nil {
		return fmt.Errorf("failed to find chunks for %q: %w", fileName, err)
	}
	if len(chunks) == 0 {
		return nil
	}

	chunkIds := linq.Map(chunks, func(chunk db.ChunkModel) string { return chunk.ChunkID })

	database := s.raw.Database(tenant)
	if _, err := database.Collection(db.ChunkAnnModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"_id": bson.M{"$in": chunkIds}}); err != nil {
		return fmt.Errorf("failed to delete chunk embeddings for %q: %w", fileName, err)
	}
	if _, err := database.Collection(db.ChunkModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"sourceUri": fileName}); err != nil {
		return fmt.Errorf("failed to delete chunks for %q: %w", fileName, err)
	}

	logger.Info("Deleted document from index",
		zap.String("fileName", fileName),
		zap.Int("chunks", len(chunkIds)))

	return nil
}
