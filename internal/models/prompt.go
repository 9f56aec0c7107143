package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/versioning"
)

// PromptVariable is a named placeholder in a prompt template. A nil
// DefaultValue means no default is declared; an empty-string default is a
// legitimate value.
type PromptVariable struct {
	Name         string  `bson:"name" json:"name"`
	Description  string  `bson:"description,omitempty" json:"description,omitempty"`
	Required     bool    `bson:"required" json:"required"`
	DefaultValue *string `bson:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// PromptSnapshot is the versioned payload for prompt templates: the
// variable list travels with the content it was derived from.
type PromptSnapshot struct {
	Content   string           `bson:"content" json:"content"`
	Variables []PromptVariable `bson:"variables" json:"variables"`
}

// PromptTemplate is a reusable prompt with {{variable}} placeholders.
// Name is the natural key, unique within the project.
type PromptTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content" json:"content"`
	Variables   []PromptVariable   `bson:"variables" json:"variables"`

	versioning.History[PromptSnapshot] `bson:",inline"`

	Tags      []string  `bson:"tags" json:"tags"`
	Category  string    `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CreatePromptTemplateInput is the payload for creating a prompt template.
// When Variables is empty they are extracted from the content.
type CreatePromptTemplateInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Content     string           `json:"content"`
	Variables   []PromptVariable `json:"variables"`
	Tags        []string         `json:"tags"`
	Category    string           `json:"category"`
	ChangeNote  string           `json:"changeNote"`
}

// UpdatePromptTemplateInput is a partial update; nil fields are left
// unchanged. On a content change without an explicit variable list, the
// variables are re-extracted from the new content.
type UpdatePromptTemplateInput struct {
	Description *string          `json:"description"`
	Content     *string          `json:"content"`
	Variables   []PromptVariable `json:"variables"`
	Tags        []string         `json:"tags"`
	Category    *string          `json:"category"`
	ChangeNote  string           `json:"changeNote"`
}

// ListPromptTemplatesOptions filters prompt listings within a project.
type ListPromptTemplatesOptions struct {
	Category string
	Tags     []string
}
