// Package cli implements the contexthub command line client. Commands
// talk to MongoDB directly through the same stores the API uses.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"contexthub/internal/config"
	"contexthub/internal/database"
	"contexthub/internal/store"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "contexthub",
	Short: "Project knowledge base for AI-assisted development",
	Long: `contexthub manages versioned project context in MongoDB:
  - documents (PLAN, TODO, TECHSTACK, coding guidelines, ...)
  - skills, code snippets and prompt templates
  - todos with subtasks and Q&A threads
  - a catalog of techstack templates to bootstrap new projects

All content is also reachable over the REST API and the MCP server;
the CLI is the quick way in from a shell.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of tables")
}

// env holds the shared handles a command needs.
type env struct {
	cfg *config.Config
	db  *database.MongoDB

	projects  *store.ProjectStore
	documents *store.DocumentStore
	skills    *store.SkillStore
	snippets  *store.SnippetStore
	prompts   *store.PromptStore
	todos     *store.TodoStore
	stats     *store.StatsService
}

// connect loads configuration and opens MongoDB. Callers must defer
// e.close().
func connect(ctx context.Context) (*env, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := db.Initialize(ctx); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	e := &env{cfg: cfg, db: db}
	e.projects = store.NewProjectStore(db)
	e.documents = store.NewDocumentStore(db, e.projects)
	e.skills = store.NewSkillStore(db, e.projects)
	e.snippets = store.NewSnippetStore(db, e.projects)
	e.prompts = store.NewPromptStore(db, e.projects)
	e.todos = store.NewTodoStore(db, e.projects)
	e.stats = store.NewStatsService(e.projects, e.documents, e.skills, e.snippets, e.prompts, e.todos,
		time.Duration(cfg.StatsCacheTTL)*time.Second)
	return e, nil
}

func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.db.Close(ctx)
}
