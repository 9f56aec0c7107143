package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"contexthub/internal/seed"
)

var seedCatalogPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the techstack template catalog",
	Long: `Load the techstack/skill catalog into MongoDB. Existing slugs are
skipped, so reruns are safe. The embedded catalog is used unless
--catalog (or SEED_FILE) points at a YAML file.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedCatalogPath, "catalog", "", "Path to a YAML catalog file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	e, err := connect(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	path := seedCatalogPath
	if path == "" {
		path = e.cfg.SeedFile
	}
	catalog, err := seed.LoadCatalog(path)
	if err != nil {
		return err
	}

	result, err := seed.NewSeeder(e.projects, e.documents, e.skills).Run(ctx, catalog)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}
	fmt.Printf("Seeded %d project(s), skipped %d, added %d skill(s)\n",
		result.ProjectsCreated, result.ProjectsSkipped, result.SkillsCreated)
	return nil
}
