package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

var (
	initDescription string
	initTags        []string
	initCopyDocs    []string
	initCopySkills  bool
	initUsername    string
)

var initCmd = &cobra.Command{
	Use:   "init <source-slug> <new-slug> <new-name>",
	Short: "Create a project from a techstack template",
	Long: `Create a new project from a catalog template, copying its TECHSTACK
document by default. Use --copy-documents to copy more document types
and --copy-skills to bring the template's skills along.

Example:
  contexthub init go-fiber-mongodb my-api "My API"
  contexthub init react-vite my-app "My App" --copy-skills`,
	Args: cobra.ExactArgs(3),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initDescription, "description", "", "Description for the new project")
	initCmd.Flags().StringSliceVar(&initTags, "tags", nil, "Tags (default: the template's tags)")
	initCmd.Flags().StringSliceVar(&initCopyDocs, "copy-documents", nil, "Document types to copy (default: TECHSTACK)")
	initCmd.Flags().BoolVar(&initCopySkills, "copy-skills", false, "Copy the template's skills")
	initCmd.Flags().StringVar(&initUsername, "username", "", "Author recorded on the new project")
}

func runInit(cmd *cobra.Command, args []string) error {
	var copyDocs []models.DocumentType
	for _, raw := range initCopyDocs {
		dt, err := models.ParseDocumentType(raw)
		if err != nil {
			return err
		}
		copyDocs = append(copyDocs, dt)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e, err := connect(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	result, err := store.NewInitializer(e.projects, e.documents, e.skills).InitFromTechstack(ctx, store.InitFromTechstackInput{
		SourceSlug:    args[0],
		NewSlug:       args[1],
		NewName:       args[2],
		Description:   initDescription,
		Tags:          initTags,
		CopyDocuments: copyDocs,
		CopySkills:    initCopySkills,
		Username:      initUsername,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}

	fmt.Printf("Created project %s from %s\n", result.Project.Slug, result.SourceSlug)
	for _, d := range result.CopiedDocuments {
		fmt.Printf("  copied document %s\n", d)
	}
	for _, s := range result.CopiedSkills {
		fmt.Printf("  copied skill %s\n", s)
	}
	for _, t := range result.MissingTypes {
		fmt.Printf("  warning: template has no %s document\n", t)
	}
	return nil
}
