package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"contexthub/internal/config"
	"contexthub/internal/database"
	"contexthub/internal/handlers"
	"contexthub/internal/logging"
	"contexthub/internal/middleware"
	"contexthub/internal/search"
	"contexthub/internal/store"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, using environment variables")
	}

	logging.Init()

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: MongoDB)", cfg.Port)

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

	// Stores and services
	projects := store.NewProjectStore(db)
	documents := store.NewDocumentStore(db, projects)
	skills := store.NewSkillStore(db, projects)
	snippets := store.NewSnippetStore(db, projects)
	prompts := store.NewPromptStore(db, projects)
	todos := store.NewTodoStore(db, projects)
	stats := store.NewStatsService(projects, documents, skills, snippets, prompts, todos,
		time.Duration(cfg.StatsCacheTTL)*time.Second)
	catalog := store.NewCatalogService(projects, skills, stats)
	initializer := store.NewInitializer(projects, documents, skills)
	searchService := search.NewService(db)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ContextHub v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    10 * 1024 * 1024, // 10MB — documents and snippets can be large
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("contexthub")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: allowedOrigins != "*",
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", allowedOrigins)

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))
	log.Printf("🛡️  [RATE-LIMIT] Global=%d/min, Search=%d/min",
		rateLimitConfig.GlobalAPIMax, rateLimitConfig.SearchMax)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	projectHandler := handlers.NewProjectHandler(projects, stats)
	documentHandler := handlers.NewDocumentHandler(documents)
	skillHandler := handlers.NewSkillHandler(skills)
	snippetHandler := handlers.NewSnippetHandler(snippets)
	promptHandler := handlers.NewPromptHandler(prompts)
	todoHandler := handlers.NewTodoHandler(todos)
	searchHandler := handlers.NewSearchHandler(searchService)
	catalogHandler := handlers.NewCatalogHandler(catalog, documents, initializer)

	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	// Search (own limiter on top of the global one)
	searchLimiter := middleware.SearchRateLimiter(rateLimitConfig)
	api.Get("/search", searchLimiter, searchHandler.Search)

	// Projects
	projectsGroup := api.Group("/projects")
	projectsGroup.Post("/", projectHandler.CreateProject)
	projectsGroup.Get("/", projectHandler.ListProjects)
	projectsGroup.Get("/:slug", projectHandler.GetProject)
	projectsGroup.Put("/:slug", projectHandler.UpdateProject)
	projectsGroup.Delete("/:slug", projectHandler.DeleteProject)
	projectsGroup.Get("/:slug/context", projectHandler.GetProjectContext)
	projectsGroup.Get("/:slug/search", searchLimiter, searchHandler.SearchProject)

	// Documents
	projectsGroup.Post("/:slug/documents", documentHandler.CreateDocument)
	projectsGroup.Get("/:slug/documents", documentHandler.ListDocuments)
	projectsGroup.Get("/:slug/documents/:type", documentHandler.GetDocument)
	projectsGroup.Put("/:slug/documents/:type", documentHandler.UpdateDocument)
	projectsGroup.Delete("/:slug/documents/:type", documentHandler.DeleteDocument)
	projectsGroup.Get("/:slug/documents/:type/versions", documentHandler.GetDocumentVersions)
	projectsGroup.Get("/:slug/documents/:type/versions/:version", documentHandler.GetDocumentVersion)

	// Skills
	projectsGroup.Post("/:slug/skills", skillHandler.CreateSkill)
	projectsGroup.Get("/:slug/skills", skillHandler.ListSkills)
	projectsGroup.Get("/:slug/skills/:name", skillHandler.GetSkill)
	projectsGroup.Put("/:slug/skills/:name", skillHandler.UpdateSkill)
	projectsGroup.Delete("/:slug/skills/:name", skillHandler.DeleteSkill)
	projectsGroup.Get("/:slug/skills/:name/versions", skillHandler.GetSkillVersions)
	projectsGroup.Get("/:slug/skills/:name/versions/:version", skillHandler.GetSkillVersion)

	// Snippets
	projectsGroup.Post("/:slug/snippets", snippetHandler.CreateSnippet)
	projectsGroup.Get("/:slug/snippets", snippetHandler.ListSnippets)
	projectsGroup.Get("/:slug/snippets/:name", snippetHandler.GetSnippet)
	projectsGroup.Put("/:slug/snippets/:name", snippetHandler.UpdateSnippet)
	projectsGroup.Delete("/:slug/snippets/:name", snippetHandler.DeleteSnippet)
	projectsGroup.Get("/:slug/snippets/:name/versions", snippetHandler.GetSnippetVersions)
	projectsGroup.Get("/:slug/snippets/:name/versions/:version", snippetHandler.GetSnippetVersion)

	// Prompt templates
	projectsGroup.Post("/:slug/prompts", promptHandler.CreatePrompt)
	projectsGroup.Get("/:slug/prompts", promptHandler.ListPrompts)
	projectsGroup.Get("/:slug/prompts/:name", promptHandler.GetPrompt)
	projectsGroup.Put("/:slug/prompts/:name", promptHandler.UpdatePrompt)
	projectsGroup.Delete("/:slug/prompts/:name", promptHandler.DeletePrompt)
	projectsGroup.Post("/:slug/prompts/:name/render", promptHandler.RenderPrompt)
	projectsGroup.Get("/:slug/prompts/:name/versions", promptHandler.GetPromptVersions)
	projectsGroup.Get("/:slug/prompts/:name/versions/:version", promptHandler.GetPromptVersion)

	// Todos (project-scoped)
	projectsGroup.Post("/:slug/todos", todoHandler.CreateTodo)
	projectsGroup.Get("/:slug/todos", todoHandler.ListTodos)
	projectsGroup.Get("/:slug/todos/pending", todoHandler.ListPendingTodos)
	projectsGroup.Get("/:slug/todos/completed", todoHandler.ListCompletedTodos)
	projectsGroup.Get("/:slug/todos/stats", todoHandler.GetTodoStats)

	// Todos (id-addressed)
	todosGroup := api.Group("/todos")
	todosGroup.Get("/:id", todoHandler.GetTodo)
	todosGroup.Put("/:id", todoHandler.UpdateTodo)
	todosGroup.Delete("/:id", todoHandler.DeleteTodo)
	todosGroup.Post("/:id/complete", todoHandler.CompleteTodo)
	todosGroup.Post("/:id/start", todoHandler.StartTodo)
	todosGroup.Post("/:id/qa", todoHandler.AddTodoQA)
	todosGroup.Get("/:id/qa", todoHandler.GetTodoQAs)
	todosGroup.Get("/:id/subtasks", todoHandler.GetTodoSubtasks)

	// Catalog
	catalogGroup := api.Group("/catalog")
	catalogGroup.Get("/", catalogHandler.BrowseCatalog)
	catalogGroup.Get("/skills", catalogHandler.BrowseSkills)
	catalogGroup.Get("/skills/:name", catalogHandler.GetSkillContent)
	catalogGroup.Get("/techstack/:slug", catalogHandler.GetTechstackContent)
	catalogGroup.Post("/init", catalogHandler.InitFromTechstack)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 ContextHub API listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
	log.Println("👋 Server stopped")
}
