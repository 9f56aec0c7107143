package models

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidSlug is the allowed shape for project slugs: lowercase letters,
// digits, and hyphens.
var ValidSlug = regexp.MustCompile(`^[a-z0-9-]+$`)

// Project is the root aggregate. Every other record hangs off a project
// by its ObjectID; the slug is the human-facing natural key.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug        string             `bson:"slug" json:"slug"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Tags        []string           `bson:"tags" json:"tags"`
	Metadata    map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsTemplate  bool               `bson:"isTemplate" json:"isTemplate"`
	Authors     []string           `bson:"authors" json:"authors"`
	LastAuthor  string             `bson:"lastAuthor,omitempty" json:"lastAuthor,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateProjectInput is the payload for creating a project.
type CreateProjectInput struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
	IsTemplate  bool           `json:"isTemplate"`
	Username    string         `json:"username"`
}

// UpdateProjectInput is a partial update; nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
	IsTemplate  *bool          `json:"isTemplate"`
	Username    string         `json:"username"`
}

// TodoRollup summarizes a project's todos for list and context views.
type TodoRollup struct {
	Total          int    `bson:"total" json:"total"`
	Pending        int    `bson:"pending" json:"pending"`
	InProgress     int    `bson:"inProgress" json:"inProgress"`
	Completed      int    `bson:"completed" json:"completed"`
	CompletionRate string `bson:"completionRate" json:"completionRate"`
}

// ProjectWithCounts decorates a project with per-collection counts for
// the list endpoint and the aggregated context view.
type ProjectWithCounts struct {
	Project `bson:",inline"`

	DocumentCount int                   `json:"documentCount"`
	SkillCount    int                   `json:"skillCount"`
	SnippetCount  int                   `json:"snippetCount"`
	PromptCount   int                   `json:"promptCount"`
	TodoStats     *TodoRollup           `json:"todoStats,omitempty"`
	Documents     map[DocumentType]bool `json:"documents,omitempty"`
}

// ListProjectsOptions filters and pages project listings.
type ListProjectsOptions struct {
	Tags       []string
	IsTemplate *bool
	Limit      int64
	Offset     int64
}
