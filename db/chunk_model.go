package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
)

const (
	TextSearchIndexName = "chunkIndex"
	VectorIndexName     = "chunkEmbeddingIndex"
	VectorPath          = "embedding"

	// Dimension of the embedding vectors stored in the ANN collection. All
	// configured embedding models must produce vectors of this size.
	EmbeddingDimensions = 768
)

var TextSearchPaths = []string{"body", "displayName"}

// ChunkModel is one retrievable piece of an uploaded document.
type ChunkModel struct {
	ChunkID     string `json:"chunkId" bson:"_id"`
	SourceURI   string `json:"sourceUri" bson:"sourceUri"`     // stored filename of the document, e.g. "Report_2023-01-05.pdf"
	DisplayName string `json:"displayName" bson:"displayName"` // date-stripped stem, matches the tool routing name
	Page        int    `json:"page" bson:"page"`               // zero-based page/section ordinal within the document
	Body        string `json:"body" bson:"body"`
}

func (m ChunkModel) Id() string { return m.ChunkID }

func (m ChunkModel) CollectionName() string { return "chunks" }

// Indexes
func (m ChunkModel) TermSearchIndexSpecs() []odm.TermSearchIndexSpec {
	return []odm.TermSearchIndexSpec{
		{
			Name:  TextSearchIndexName,
			Paths: TextSearchPaths,
		},
	}
}
