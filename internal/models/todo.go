package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/versioning"
)

// TodoStatus is the todo lifecycle state. Every state is reachable from
// every other by an explicit update; there is no transition table.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
	TodoCancelled  TodoStatus = "cancelled"
)

// ParseTodoStatus validates a raw status string.
func ParseTodoStatus(s string) (TodoStatus, error) {
	switch TodoStatus(s) {
	case TodoPending, TodoInProgress, TodoCompleted, TodoCancelled:
		return TodoStatus(s), nil
	}
	return "", fmt.Errorf("invalid todo status %q", s)
}

// TodoPriority is stored and filtered on but carries no ordering logic.
type TodoPriority string

const (
	PriorityLow      TodoPriority = "low"
	PriorityMedium   TodoPriority = "medium"
	PriorityHigh     TodoPriority = "high"
	PriorityCritical TodoPriority = "critical"
)

// ParseTodoPriority validates a raw priority string.
func ParseTodoPriority(s string) (TodoPriority, error) {
	switch TodoPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return TodoPriority(s), nil
	}
	return "", fmt.Errorf("invalid todo priority %q", s)
}

// TodoQA is one question/answer pair on a todo. The list is append-only;
// entries are never edited or removed.
type TodoQA struct {
	Question string    `bson:"question" json:"question"`
	Answer   string    `bson:"answer" json:"answer"`
	AskedAt  time.Time `bson:"askedAt" json:"askedAt"`
	Context  string    `bson:"context,omitempty" json:"context,omitempty"`
}

// TodoSnapshot is the versioned payload for todos: a change to any of the
// three fields bumps the version.
type TodoSnapshot struct {
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Status      TodoStatus `bson:"status" json:"status"`
}

// Todo is a task owned by a project. Unlike the other content entities it
// is addressed by id, not by a natural key; ParentID links subtasks to
// their parent with no depth limit.
type Todo struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID  `bson:"projectId" json:"projectId"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      TodoStatus          `bson:"status" json:"status"`
	Priority    TodoPriority        `bson:"priority" json:"priority"`
	ParentID    *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`

	versioning.History[TodoSnapshot] `bson:",inline"`

	Tags             []string   `bson:"tags" json:"tags"`
	DueDate          *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	QuestionsAnswers []TodoQA   `bson:"questionsAnswers" json:"questionsAnswers"`
	CompletedAt      *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Authors          []string   `bson:"authors" json:"authors"`
	LastAuthor       string     `bson:"lastAuthor,omitempty" json:"lastAuthor,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// CreateTodoInput is the payload for creating a todo.
type CreateTodoInput struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Status           TodoStatus   `json:"status"`
	Priority         TodoPriority `json:"priority"`
	Tags             []string     `json:"tags"`
	DueDate          *time.Time   `json:"dueDate"`
	ParentID         string       `json:"parentId"`
	QuestionsAnswers []TodoQA     `json:"questionsAnswers"`
	ChangeNote       string       `json:"changeNote"`
	Username         string       `json:"username"`
}

// UpdateTodoInput is a partial update; nil fields are left unchanged.
type UpdateTodoInput struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TodoStatus   `json:"status"`
	Priority    *TodoPriority `json:"priority"`
	Tags        []string      `json:"tags"`
	DueDate     *time.Time    `json:"dueDate"`
	ChangeNote  string        `json:"changeNote"`
	Username    string        `json:"username"`
}

// AddTodoQAInput appends one question/answer pair.
type AddTodoQAInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Context  string `json:"context"`
	Username string `json:"username"`
}

// ListTodosOptions filters todo listings. With no status filter and
// IncludeCompleted unset, completed and cancelled todos are excluded.
// ParentRootOnly limits results to todos without a parent.
type ListTodosOptions struct {
	Status           []TodoStatus
	Priority         []TodoPriority
	Tags             []string
	IncludeCompleted bool
	ParentID         string
	ParentRootOnly   bool
}

// TodoStats is the per-project todo rollup.
type TodoStats struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"inProgress"`
	Completed  int            `json:"completed"`
	Cancelled  int            `json:"cancelled"`
	ByPriority map[string]int `json:"byPriority"`
}
