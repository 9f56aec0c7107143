package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// CreateTodoTool handles the create_todo MCP tool.
type CreateTodoTool struct {
	todos *store.TodoStore
}

// NewCreateTodoTool creates a CreateTodoTool.
func NewCreateTodoTool(todos *store.TodoStore) *CreateTodoTool {
	return &CreateTodoTool{todos: todos}
}

// Definition returns the MCP tool definition for create_todo.
func (t *CreateTodoTool) Definition() mcp.Tool {
	return mcp.NewTool("create_todo",
		mcp.WithDescription("Create a todo in a project. Set parentId to create a subtask."),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Todo title")),
		mcp.WithString("description", mcp.Description("Longer description")),
		mcp.WithString("status", mcp.Description("pending, in_progress, completed, or cancelled (default: pending)")),
		mcp.WithString("priority", mcp.Description("low, medium, high, or critical (default: medium)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("parentId", mcp.Description("Parent todo id to attach this as a subtask")),
		mcp.WithString("username", mcp.Description("Author to record on the todo")),
	)
}

// Handle processes the create_todo tool call.
func (t *CreateTodoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	title := req.GetString("title", "")
	if slug == "" || title == "" {
		return mcp.NewToolResultError("'projectSlug' and 'title' are required"), nil
	}

	input := models.CreateTodoInput{
		Title:       title,
		Description: req.GetString("description", ""),
		Tags:        splitTags(req.GetString("tags", "")),
		ParentID:    req.GetString("parentId", ""),
		Username:    req.GetString("username", ""),
	}
	if raw := req.GetString("status", ""); raw != "" {
		status, err := models.ParseTodoStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		input.Status = status
	}
	if raw := req.GetString("priority", ""); raw != "" {
		priority, err := models.ParseTodoPriority(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		input.Priority = priority
	}

	todo, err := t.todos.Create(ctx, slug, input)
	if err != nil {
		return errResult(err, "creating todo"), nil
	}
	return jsonResult(todo)
}

// UpdateTodoTool handles the update_todo MCP tool.
type UpdateTodoTool struct {
	todos *store.TodoStore
}

// NewUpdateTodoTool creates an UpdateTodoTool.
func NewUpdateTodoTool(todos *store.TodoStore) *UpdateTodoTool {
	return &UpdateTodoTool{todos: todos}
}

// Definition returns the MCP tool definition for update_todo.
func (t *UpdateTodoTool) Definition() mcp.Tool {
	return mcp.NewTool("update_todo",
		mcp.WithDescription(
			"Update a todo by id. Changes to title, description, or status are "+
				"versioned; moving to completed stamps the completion time.",
		),
		mcp.WithString("todoId", mcp.Required(), mcp.Description("The todo's id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("status", mcp.Description("pending, in_progress, completed, or cancelled")),
		mcp.WithString("priority", mcp.Description("low, medium, high, or critical")),
		mcp.WithString("changeNote", mcp.Description("Why the todo changed")),
		mcp.WithString("username", mcp.Description("Author to record on the change")),
	)
}

// Handle processes the update_todo tool call.
func (t *UpdateTodoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := primitive.ObjectIDFromHex(req.GetString("todoId", ""))
	if err != nil {
		return mcp.NewToolResultError("'todoId' must be a valid id"), nil
	}

	input := models.UpdateTodoInput{
		ChangeNote: req.GetString("changeNote", ""),
		Username:   req.GetString("username", ""),
	}
	if title := req.GetString("title", ""); title != "" {
		input.Title = &title
	}
	if description := req.GetString("description", ""); description != "" {
		input.Description = &description
	}
	if raw := req.GetString("status", ""); raw != "" {
		status, err := models.ParseTodoStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		input.Status = &status
	}
	if raw := req.GetString("priority", ""); raw != "" {
		priority, err := models.ParseTodoPriority(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		input.Priority = &priority
	}

	todo, err := t.todos.Update(ctx, id, input)
	if err != nil {
		return errResult(err, "updating todo"), nil
	}
	return jsonResult(todo)
}

// GetTodoTool handles the get_todo MCP tool.
type GetTodoTool struct {
	todos *store.TodoStore
}

// NewGetTodoTool creates a GetTodoTool.
func NewGetTodoTool(todos *store.TodoStore) *GetTodoTool {
	return &GetTodoTool{todos: todos}
}

// Definition returns the MCP tool definition for get_todo.
func (t *GetTodoTool) Definition() mcp.Tool {
	return mcp.NewTool("get_todo",
		mcp.WithDescription("Get one todo by id, including its Q&A list and version history."),
		mcp.WithString("todoId", mcp.Required(), mcp.Description("The todo's id")),
		mcp.WithBoolean("includeSubtasks", mcp.Description("Also return direct subtasks")),
	)
}

// Handle processes the get_todo tool call.
func (t *GetTodoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := primitive.ObjectIDFromHex(req.GetString("todoId", ""))
	if err != nil {
		return mcp.NewToolResultError("'todoId' must be a valid id"), nil
	}

	todo, err := t.todos.GetByID(ctx, id)
	if err != nil {
		return errResult(err, "getting todo"), nil
	}

	if boolArg(req, "includeSubtasks", false) {
		subtasks, err := t.todos.Subtasks(ctx, id)
		if err != nil {
			return errResult(err, "getting subtasks"), nil
		}
		return jsonResult(map[string]any{
			"todo":     todo,
			"subtasks": subtasks,
		})
	}
	return jsonResult(todo)
}

// ListTodosTool handles the list_todos MCP tool.
type ListTodosTool struct {
	todos *store.TodoStore
}

// NewListTodosTool creates a ListTodosTool.
func NewListTodosTool(todos *store.TodoStore) *ListTodosTool {
	return &ListTodosTool{todos: todos}
}

// Definition returns the MCP tool definition for list_todos.
func (t *ListTodosTool) Definition() mcp.Tool {
	return mcp.NewTool("list_todos",
		mcp.WithDescription(
			"List a project's todos. Completed and cancelled todos are excluded "+
				"unless includeCompleted is set or a status filter names them.",
		),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("status", mcp.Description("Comma-separated status filter")),
		mcp.WithString("priority", mcp.Description("Comma-separated priority filter")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithBoolean("includeCompleted", mcp.Description("Include completed and cancelled todos")),
		mcp.WithBoolean("rootOnly", mcp.Description("Only todos without a parent")),
	)
}

// Handle processes the list_todos tool call.
func (t *ListTodosTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}

	opts := models.ListTodosOptions{
		Tags:             splitTags(req.GetString("tags", "")),
		IncludeCompleted: boolArg(req, "includeCompleted", false),
		ParentRootOnly:   boolArg(req, "rootOnly", false),
	}
	for _, raw := range splitTags(req.GetString("status", "")) {
		status, err := models.ParseTodoStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Status = append(opts.Status, status)
	}
	for _, raw := range splitTags(req.GetString("priority", "")) {
		priority, err := models.ParseTodoPriority(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Priority = append(opts.Priority, priority)
	}

	todos, err := t.todos.List(ctx, slug, opts)
	if err != nil {
		return errResult(err, "listing todos"), nil
	}
	return jsonResult(map[string]any{
		"todos": todos,
		"total": len(todos),
	})
}

// AddTodoQATool handles the add_todo_qa MCP tool.
type AddTodoQATool struct {
	todos *store.TodoStore
}

// NewAddTodoQATool creates an AddTodoQATool.
func NewAddTodoQATool(todos *store.TodoStore) *AddTodoQATool {
	return &AddTodoQATool{todos: todos}
}

// Definition returns the MCP tool definition for add_todo_qa.
func (t *AddTodoQATool) Definition() mcp.Tool {
	return mcp.NewTool("add_todo_qa",
		mcp.WithDescription(
			"Record a clarifying question and its answer on a todo. The Q&A list "+
				"is append-only and preserved across todo edits.",
		),
		mcp.WithString("todoId", mcp.Required(), mcp.Description("The todo's id")),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question asked")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The answer given")),
		mcp.WithString("context", mcp.Description("Where or why the question came up")),
		mcp.WithString("username", mcp.Description("Author to record on the project")),
	)
}

// Handle processes the add_todo_qa tool call.
func (t *AddTodoQATool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := primitive.ObjectIDFromHex(req.GetString("todoId", ""))
	if err != nil {
		return mcp.NewToolResultError("'todoId' must be a valid id"), nil
	}
	question := req.GetString("question", "")
	answer := req.GetString("answer", "")
	if question == "" || answer == "" {
		return mcp.NewToolResultError("'question' and 'answer' are required"), nil
	}

	todo, err := t.todos.AddQA(ctx, id, models.AddTodoQAInput{
		Question: question,
		Answer:   answer,
		Context:  req.GetString("context", ""),
		Username: req.GetString("username", ""),
	})
	if err != nil {
		return errResult(err, "adding todo Q&A"), nil
	}
	return jsonResult(todo)
}

// GetTodoStatsTool handles the get_todo_stats MCP tool.
type GetTodoStatsTool struct {
	todos *store.TodoStore
}

// NewGetTodoStatsTool creates a GetTodoStatsTool.
func NewGetTodoStatsTool(todos *store.TodoStore) *GetTodoStatsTool {
	return &GetTodoStatsTool{todos: todos}
}

// Definition returns the MCP tool definition for get_todo_stats.
func (t *GetTodoStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_todo_stats",
		mcp.WithDescription("Get a project's todo rollup: counts per status and priority, plus the completion rate."),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
	)
}

// Handle processes the get_todo_stats tool call.
func (t *GetTodoStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}

	stats, err := t.todos.Stats(ctx, slug)
	if err != nil {
		return errResult(err, "getting todo stats"), nil
	}
	return jsonResult(map[string]any{
		"stats":          stats,
		"completionRate": store.CompletionRate(stats),
	})
}
