// ContextHub MCP server: exposes project context, documents, todos,
// skills, snippets, prompt templates, search and the techstack catalog
// as MCP tools over stdio transport.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"contexthub/internal/config"
	"contexthub/internal/database"
	"contexthub/internal/logging"
	"contexthub/internal/mcptools"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, using environment variables")
	}

	logging.Init()

	cfg := config.Load()

	// All diagnostics go to stderr; stdout belongs to the stdio transport.
	log.Println("🔗 Connecting to MongoDB...")
	db, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Initialize(initCtx); err != nil {
		cancel()
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	cancel()
	log.Println("✅ MongoDB connected, indexes ensured")

	s := mcptools.New(db, time.Duration(cfg.StatsCacheTTL)*time.Second)

	log.Println("🚀 ContextHub MCP server listening on stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("❌ MCP server error: %v", err)
	}
	log.Println("👋 MCP server stopped")
}
