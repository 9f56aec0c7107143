package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// TodoHandler handles todo HTTP requests. Creation and listing are
// project-scoped; everything else addresses todos by id.
type TodoHandler struct {
	todos *store.TodoStore
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todos *store.TodoStore) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// CreateTodo creates a todo under a project
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	var input models.CreateTodoInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Title == "" {
		return badRequest(c, "Title is required")
	}
	if input.Status != "" {
		if _, err := models.ParseTodoStatus(string(input.Status)); err != nil {
			return badRequest(c, err.Error())
		}
	}
	if input.Priority != "" {
		if _, err := models.ParseTodoPriority(string(input.Priority)); err != nil {
			return badRequest(c, err.Error())
		}
	}

	todo, err := h.todos.Create(c.Context(), c.Params("slug"), input)
	if err != nil {
		return fail(c, err, "Failed to create todo")
	}
	return c.Status(fiber.StatusCreated).JSON(todo)
}

// ListTodos returns the project's todos. Without a status filter,
// completed and cancelled todos are excluded.
func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	opts := models.ListTodosOptions{
		Tags:             queryTags(c),
		IncludeCompleted: c.QueryBool("includeCompleted", false),
		ParentID:         c.Query("parentId"),
		ParentRootOnly:   c.QueryBool("rootOnly", false),
	}
	for _, raw := range splitQuery(c.Query("status")) {
		status, err := models.ParseTodoStatus(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		opts.Status = append(opts.Status, status)
	}
	for _, raw := range splitQuery(c.Query("priority")) {
		priority, err := models.ParseTodoPriority(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		opts.Priority = append(opts.Priority, priority)
	}

	todos, err := h.todos.List(c.Context(), c.Params("slug"), opts)
	if err != nil {
		return fail(c, err, "Failed to list todos")
	}
	return c.JSON(fiber.Map{
		"todos": todos,
		"total": len(todos),
	})
}

// ListPendingTodos returns the project's pending todos
func (h *TodoHandler) ListPendingTodos(c *fiber.Ctx) error {
	return h.listByStatus(c, models.TodoPending)
}

// ListCompletedTodos returns the project's completed todos
func (h *TodoHandler) ListCompletedTodos(c *fiber.Ctx) error {
	return h.listByStatus(c, models.TodoCompleted)
}

func (h *TodoHandler) listByStatus(c *fiber.Ctx, status models.TodoStatus) error {
	todos, err := h.todos.List(c.Context(), c.Params("slug"), models.ListTodosOptions{
		Status: []models.TodoStatus{status},
	})
	if err != nil {
		return fail(c, err, "Failed to list todos")
	}
	return c.JSON(fiber.Map{
		"todos": todos,
		"total": len(todos),
	})
}

// GetTodoStats returns the project's todo rollup with completion rate
func (h *TodoHandler) GetTodoStats(c *fiber.Ctx) error {
	stats, err := h.todos.Stats(c.Context(), c.Params("slug"))
	if err != nil {
		return fail(c, err, "Failed to get todo stats")
	}
	return c.JSON(fiber.Map{
		"stats":          stats,
		"completionRate": store.CompletionRate(stats),
	})
}

// GetTodo returns one todo by id
func (h *TodoHandler) GetTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	todo, err := h.todos.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get todo")
	}
	return c.JSON(todo)
}

// UpdateTodo applies a partial update; a title, description, or status
// change bumps the version
func (h *TodoHandler) UpdateTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var input models.UpdateTodoInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Status != nil {
		if _, err := models.ParseTodoStatus(string(*input.Status)); err != nil {
			return badRequest(c, err.Error())
		}
	}
	if input.Priority != nil {
		if _, err := models.ParseTodoPriority(string(*input.Priority)); err != nil {
			return badRequest(c, err.Error())
		}
	}

	todo, err := h.todos.Update(c.Context(), id, input)
	if err != nil {
		return fail(c, err, "Failed to update todo")
	}
	return c.JSON(todo)
}

// DeleteTodo removes a todo and its direct subtasks
func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.todos.Delete(c.Context(), id); err != nil {
		return fail(c, err, "Failed to delete todo")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteTodo moves a todo to completed
func (h *TodoHandler) CompleteTodo(c *fiber.Ctx) error {
	return h.transition(c, (*store.TodoStore).MarkComplete)
}

// StartTodo moves a todo to in_progress
func (h *TodoHandler) StartTodo(c *fiber.Ctx) error {
	return h.transition(c, (*store.TodoStore).MarkInProgress)
}

func (h *TodoHandler) transition(c *fiber.Ctx, mark func(*store.TodoStore, context.Context, primitive.ObjectID, string, string) (*models.Todo, error)) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var body struct {
		ChangeNote string `json:"changeNote"`
		Username   string `json:"username"`
	}
	// body is optional on transitions
	_ = c.BodyParser(&body)

	todo, err := mark(h.todos, c.Context(), id, body.ChangeNote, body.Username)
	if err != nil {
		return fail(c, err, "Failed to update todo")
	}
	return c.JSON(todo)
}

// AddTodoQA appends a question/answer pair to a todo
func (h *TodoHandler) AddTodoQA(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var input models.AddTodoQAInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Question == "" || input.Answer == "" {
		return badRequest(c, "Question and answer are required")
	}

	todo, err := h.todos.AddQA(c.Context(), id, input)
	if err != nil {
		return fail(c, err, "Failed to add todo Q&A")
	}
	return c.Status(fiber.StatusCreated).JSON(todo)
}

// GetTodoQAs returns a todo's question/answer list
func (h *TodoHandler) GetTodoQAs(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	qas, err := h.todos.QAs(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get todo Q&A")
	}
	return c.JSON(fiber.Map{
		"questionsAnswers": qas,
		"total":            len(qas),
	})
}

// GetTodoSubtasks returns a todo's direct children
func (h *TodoHandler) GetTodoSubtasks(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	subtasks, err := h.todos.Subtasks(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get subtasks")
	}
	return c.JSON(fiber.Map{
		"subtasks": subtasks,
		"total":    len(subtasks),
	})
}

// todoID parses the :id route parameter.
func todoID(c *fiber.Ctx) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Params("id"))
}

// splitQuery splits a comma-separated query value, dropping empties.
func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
