package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"chatdoc/agent"
	"chatdoc/appconfig"
	"chatdoc/chatbot"
	"chatdoc/db"
	"chatdoc/docname"
	"chatdoc/doctools"
	"chatdoc/embed"
	"chatdoc/ingest"
	"chatdoc/llm"
	"chatdoc/memory"
	"chatdoc/prompts"
	"chatdoc/retrieval"
	"chatdoc/session"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	// load config file
	ccfg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vendor, err := embed.ParseVendor(ccfg.EmbeddingVendor)
	if err != nil {
		logger.Fatal("Bad embedding vendor", zap.Error(err))
	}
	embedder, err := embed.Provide(vendor, ccfg.EmbeddingModel)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}

	llmClient := llm.NewAnthropicClient(ccfg.ChatModel)

	mongoClient := odm.ProvideMongoClient()
	rawClient, err := mongo.Connect(options.Client().ApplyURI(ccfg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer rawClient.Disconnect(context.Background())

	// One session per run; the session id doubles as the tenant database.
	sessionID := uuid.New().String()
	tenant := sessionID

	if err := db.InitChatdocDB(ctx, mongoClient, tenant); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	messageLog := memory.NewMessageLog(rawClient, tenant)
	reconciler := session.NewReconciler(session.NewOdmRecordStore(mongoClient, tenant), messageLog)

	if err := reconciler.StartOrResume(ctx, sessionID); err != nil {
		logger.Fatal("Failed to start session", zap.Error(err))
	}

	documents := ingestDocuments(ctx, ccfg, mongoClient, rawClient, embedder, sessionID, tenant)
	if len(documents) == 0 {
		logger.Fatal("No documents to chat with", zap.String("documentsDir", ccfg.DocumentsDir))
	}

	bot, err := buildChatbot(ccfg, llmClient, embedder, mongoClient, messageLog, documents, tenant, sessionID)
	if err != nil {
		logger.Fatal("Failed to build chatbot", zap.Error(err))
	}

	runREPL(ctx, bot, reconciler, sessionID)
}

// ingestDocuments copies the configured documents into the session temp dir
// and indexes each one. It returns the stored filename to path map used to
// build the document tools.
func ingestDocuments(ctx context.Context, ccfg *appconfig.AppConfig, mongoClient odm.MongoClient, rawClient *mongo.Client, embedder embed.Embedder, sessionID, tenant string) map[string]string {
	entries, err := os.ReadDir(ccfg.DocumentsDir)
	if err != nil {
		logger.Fatal("Failed to read documents dir", zap.Error(err))
	}

	files := make(map[string][]byte)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(ccfg.DocumentsDir, entry.Name()))
		if err != nil {
			logger.Fatal("Failed to read document", zap.String("fileName", entry.Name()), zap.Error(err))
		}
		files[entry.Name()] = content
	}

	saved, err := ingest.SaveToTemp(files, sessionID)
	if err != nil {
		logger.Fatal("Failed to save documents", zap.Error(err))
	}

	indexer := ingest.ProvideIndexer(mongoClient, rawClient, embedder)
	for uniqueName, path := range saved {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("Failed to read saved document", zap.String("path", path), zap.Error(err))
		}
		if _, err := indexer.IndexDocument(ctx, tenant, uniqueName, content); err != nil {
			logger.Fatal("Failed to index document", zap.String("fileName", uniqueName), zap.Error(err))
		}
	}

	return saved
}

func buildChatbot(ccfg *appconfig.AppConfig, llmClient llm.LLMClient, embedder embed.Embedder, mongoClient odm.MongoClient, messageLog *memory.MessageLog, documents map[string]string, tenant, sessionID string) (*chatbot.Chatbot, error) {
	searchStep := retrieval.NewSearchStep(
		odm.CollectionOf[db.ChunkModel](mongoClient, tenant),
		odm.CollectionOf[db.ChunkAnnModel](mongoClient, tenant),
		embedder,
	)
	chain := retrieval.NewChain(searchStep, llmClient)

	tools, err := doctools.BuildTools(documents, chain)
	if err != nil {
		return nil, err
	}

	documentNames := make([]string, 0, len(documents))
	for fileName := range documents {
		documentNames = append(documentNames, docname.DisplayName(fileName))
	}
	systemPrompt, err := prompts.RouterSystemPrompt(documentNames)
	if err != nil {
		return nil, err
	}

	routingAgent := agent.NewAgentBuilder().
		WithModel(llmClient).
		WithSystemPrompt(systemPrompt).
		AddTools(tools).
		WithMaxTokens(ccfg.MaxTokens).
		WithMaxTurns(ccfg.MaxTurns).
		Build()

	return chatbot.New(routingAgent, nil, messageLog, sessionID, ccfg.CitationProof), nil
}

func runREPL(ctx context.Context, bot *chatbot.Chatbot, reconciler *session.Reconciler, sessionID string) {
	scanner := bufio.NewScanner(os.Stdin)
	var lastResult *chatbot.PromptResult

	fmt.Println("Ask a question about your documents. Type \"exit\" to finish.")

	for {
		fmt.Print("> ")
		if !scanner.Scan() || ctx.Err() != nil {
			break
		}

		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "exit" || prompt == "quit" {
			break
		}

		result, err := bot.SendPrompt(ctx, prompt)
		if err != nil {
			logger.Error("Failed to answer prompt", zap.Error(err))
			continue
		}
		lastResult = result

		fmt.Println(result.Answer)
		for _, cit := range result.Citations {
			fmt.Println(cit.FormatText())
		}
	}

	finalAnswer := bson.M{}
	if lastResult != nil {
		finalAnswer = bson.M{
			"answer":    lastResult.Answer,
			"citations": lastResult.Citations,
		}
	}

	if err := reconciler.Finalize(context.Background(), sessionID, finalAnswer); err != nil {
		logger.Error("Failed to finalize session", zap.String("sessionId", sessionID), zap.Error(err))
	}
}
