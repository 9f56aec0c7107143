package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"contexthub/internal/models"
)

var (
	listTags      []string
	listTemplates bool
	listLimit     int64
	listOffset    int64
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and inspect projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with their content counts",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <slug>",
	Short: "Show one project with counts and todo stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsGet,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)

	projectsListCmd.Flags().StringSliceVar(&listTags, "tags", nil, "Filter by tags")
	projectsListCmd.Flags().BoolVar(&listTemplates, "templates", false, "Only template projects")
	projectsListCmd.Flags().Int64Var(&listLimit, "limit", 50, "Max projects to list")
	projectsListCmd.Flags().Int64Var(&listOffset, "offset", 0, "Projects to skip")
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e, err := connect(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	opts := models.ListProjectsOptions{
		Tags:   listTags,
		Limit:  listLimit,
		Offset: listOffset,
	}
	if listTemplates {
		t := true
		opts.IsTemplate = &t
	}

	projects, total, err := e.stats.ListWithCounts(ctx, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{"projects": projects, "total": total})
	}

	rows := [][]string{{"SLUG", "NAME", "DOCS", "SKILLS", "SNIPPETS", "TODOS", "TAGS"}}
	for _, p := range projects {
		todoCount := 0
		if p.TodoStats != nil {
			todoCount = p.TodoStats.Total
		}
		rows = append(rows, []string{
			p.Slug,
			truncate(p.Name, 40),
			strconv.Itoa(p.DocumentCount),
			strconv.Itoa(p.SkillCount),
			strconv.Itoa(p.SnippetCount),
			strconv.Itoa(todoCount),
			joinTags(p.Tags),
		})
	}
	table(rows)
	fmt.Printf("\n%d of %d project(s)\n", len(projects), total)
	return nil
}

func runProjectsGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e, err := connect(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	project, err := e.projects.GetBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	counts, err := e.stats.Counts(ctx, *project)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(counts)
	}

	fmt.Printf("%s (%s)\n", project.Name, project.Slug)
	if project.Description != "" {
		fmt.Printf("  %s\n", project.Description)
	}
	if project.IsTemplate {
		fmt.Println("  Template: yes")
	}
	fmt.Printf("  Tags:      %s\n", joinTags(project.Tags))
	fmt.Printf("  Updated:   %s\n", project.UpdatedAt.Format("2006-01-02 15:04"))
	if project.LastAuthor != "" {
		fmt.Printf("  Last by:   %s\n", project.LastAuthor)
	}
	fmt.Printf("  Documents: %d  Skills: %d  Snippets: %d  Prompts: %d\n",
		counts.DocumentCount, counts.SkillCount, counts.SnippetCount, counts.PromptCount)
	printTodoStats(counts.TodoStats)
	return nil
}
func printTodoStats(stats *models.TodoRollup) {
	if stats == nil || stats.Total == 0 {
		return
	}
	fmt.Printf("  Todos:     %d total, %d pending, %d in progress, %d completed (%s)\n",
		stats.Total, stats.Pending, stats.InProgress, stats.Completed, stats.CompletionRate)
}
