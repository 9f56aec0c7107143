package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"contexthub/internal/models"
	"contexthub/internal/search"
)

var (
	searchProject string
	searchTypes   []string
	searchTags    []string
	searchLimit   int
	searchOffset  int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search across documents, skills, snippets and prompts",
	Long: `Search all content types with MongoDB text search. Results are
ranked by relevance across types.

Example:
  contexthub search "connection pooling"
  contexthub search --project my-api --types document,skill "retry"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchProject, "project", "", "Limit to one project (slug)")
	searchCmd.Flags().StringSliceVar(&searchTypes, "types", nil, "Types: document, skill, snippet, prompt")
	searchCmd.Flags().StringSliceVar(&searchTags, "tags", nil, "Filter by tags")
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "Max results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Results to skip")
}

func runSearch(cmd *cobra.Command, args []string) error {
	var types []models.SearchType
	for _, raw := range searchTypes {
		st, err := models.ParseSearchType(raw)
		if err != nil {
			return err
		}
		types = append(types, st)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e, err := connect(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	resp, err := search.NewService(e.db).Search(ctx, models.SearchQuery{
		Query:       args[0],
		ProjectSlug: searchProject,
		Types:       types,
		Tags:        searchTags,
		Limit:       searchLimit,
		Offset:      searchOffset,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	if len(resp.Results) == 0 {
		fmt.Println("No results")
		return nil
	}

	fmt.Printf("Found %d result(s):\n\n", resp.Total)
	for i, r := range resp.Results {
		title := r.Title
		if title == "" {
			title = r.Name
		}
		fmt.Printf("%d. [%s] %s — %s (score: %.2f)\n", searchOffset+i+1, r.Type, title, r.ProjectSlug, r.Score)
		if r.Excerpt != "" {
			fmt.Printf("   %s\n", truncate(r.Excerpt, 120))
		}
		if len(r.Tags) > 0 {
			fmt.Printf("   tags: %s\n", joinTags(r.Tags))
		}
		fmt.Println()
	}
	return nil
}
