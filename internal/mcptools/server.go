package mcptools

import (
	"time"

	"github.com/mark3labs/mcp-go/server"

	"contexthub/internal/database"
	"contexthub/internal/search"
	"contexthub/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New wires every store and registers all tools on a fresh MCP server.
// This is the composition root; no business logic lives here.
func New(db *database.MongoDB, statsTTL time.Duration) *server.MCPServer {
	projects := store.NewProjectStore(db)
	documents := store.NewDocumentStore(db, projects)
	skills := store.NewSkillStore(db, projects)
	snippets := store.NewSnippetStore(db, projects)
	prompts := store.NewPromptStore(db, projects)
	todos := store.NewTodoStore(db, projects)
	stats := store.NewStatsService(projects, documents, skills, snippets, prompts, todos, statsTTL)
	catalog := store.NewCatalogService(projects, skills, stats)
	initializer := store.NewInitializer(projects, documents, skills)
	searchSvc := search.NewService(db)

	s := server.NewMCPServer(
		"contexthub",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	// Projects.
	listProjects := NewListProjectsTool(stats)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	projectContext := NewGetProjectContextTool(stats)
	s.AddTool(projectContext.Definition(), projectContext.Handle)

	// Documents.
	addDocument := NewAddDocumentTool(documents)
	s.AddTool(addDocument.Definition(), addDocument.Handle)

	updateDocument := NewUpdateDocumentTool(documents)
	s.AddTool(updateDocument.Definition(), updateDocument.Handle)

	getDocument := NewGetDocumentTool(documents)
	s.AddTool(getDocument.Definition(), getDocument.Handle)

	techstackContent := NewGetTechstackContentTool(documents)
	s.AddTool(techstackContent.Definition(), techstackContent.Handle)

	// Todos.
	createTodo := NewCreateTodoTool(todos)
	s.AddTool(createTodo.Definition(), createTodo.Handle)

	updateTodo := NewUpdateTodoTool(todos)
	s.AddTool(updateTodo.Definition(), updateTodo.Handle)

	getTodo := NewGetTodoTool(todos)
	s.AddTool(getTodo.Definition(), getTodo.Handle)

	listTodos := NewListTodosTool(todos)
	s.AddTool(listTodos.Definition(), listTodos.Handle)

	addTodoQA := NewAddTodoQATool(todos)
	s.AddTool(addTodoQA.Definition(), addTodoQA.Handle)

	todoStats := NewGetTodoStatsTool(todos)
	s.AddTool(todoStats.Definition(), todoStats.Handle)

	// Skills, snippets and prompts.
	getSkills := NewGetSkillsTool(skills)
	s.AddTool(getSkills.Definition(), getSkills.Handle)

	skillContent := NewGetSkillContentTool(catalog)
	s.AddTool(skillContent.Definition(), skillContent.Handle)

	codeSnippets := NewGetCodeSnippetsTool(snippets)
	s.AddTool(codeSnippets.Definition(), codeSnippets.Handle)

	promptTemplate := NewGetPromptTemplateTool(prompts)
	s.AddTool(promptTemplate.Definition(), promptTemplate.Handle)

	// Search.
	searchContent := NewSearchContentTool(searchSvc)
	s.AddTool(searchContent.Definition(), searchContent.Handle)

	// Catalog and project bootstrap.
	browseCatalog := NewBrowseCatalogTool(catalog)
	s.AddTool(browseCatalog.Definition(), browseCatalog.Handle)

	browseSkills := NewBrowseAllSkillsTool(catalog)
	s.AddTool(browseSkills.Definition(), browseSkills.Handle)

	browseTechstacks := NewBrowseTechstacksTool(projects, documents)
	s.AddTool(browseTechstacks.Definition(), browseTechstacks.Handle)

	initFromTechstack := NewInitProjectFromTechstackTool(initializer)
	s.AddTool(initFromTechstack.Definition(), initFromTechstack.Handle)

	initExisting := NewInitExistingProjectTool(initializer)
	s.AddTool(initExisting.Definition(), initExisting.Handle)

	return s
}
