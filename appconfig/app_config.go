package appconfig

import (
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	MongoURI        string `env:"MONGO-URI" ini:"mongo_uri"`
	EmbeddingVendor string `env:"EMBEDDING-VENDOR" ini:"embedding_vendor"`
	EmbeddingModel  string `env:"EMBEDDING-MODEL" ini:"embedding_model"`
	ChatModel       string `env:"CHAT-MODEL" ini:"chat_model"`
	DocumentsDir    string `env:"DOCUMENTS-DIR" ini:"documents_dir"`
	CitationProof   bool   `env:"CITATION-PROOF" ini:"citation_proof"`
	MaxTurns        int    `env:"MAX-TURNS" ini:"max_turns"`
	MaxTokens       int    `env:"MAX-TOKENS" ini:"max_tokens"`
}
