// Seeds the techstack/skill template catalog into MongoDB. The embedded
// catalog is used unless -catalog (or SEED_FILE) points at a YAML file.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"contexthub/internal/config"
	"contexthub/internal/database"
	"contexthub/internal/logging"
	"contexthub/internal/seed"
	"contexthub/internal/store"
)

func main() {
	catalogPath := flag.String("catalog", "", "Path to a YAML catalog file (default: embedded catalog)")
	flag.Parse()

	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, using environment variables")
	}

	logging.Init()

	cfg := config.Load()
	path := *catalogPath
	if path == "" {
		path = cfg.SeedFile
	}

	catalog, err := seed.LoadCatalog(path)
	if err != nil {
		log.Fatalf("❌ Failed to load catalog: %v", err)
	}
	log.Printf("🌱 Seeding %d techstacks, %d skills...", len(catalog.Techstacks), len(catalog.Skills))

	log.Println("🔗 Connecting to MongoDB...")
	db, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.Initialize(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	projects := store.NewProjectStore(db)
	documents := store.NewDocumentStore(db, projects)
	skills := store.NewSkillStore(db, projects)

	result, err := seed.NewSeeder(projects, documents, skills).Run(ctx, catalog)
	if err != nil {
		log.Fatalf("❌ Seed failed: %v", err)
	}

	log.Printf("✅ Seed completed: %d projects created, %d skipped, %d skills added",
		result.ProjectsCreated, result.ProjectsSkipped, result.SkillsCreated)
}
