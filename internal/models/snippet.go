package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/versioning"
)

// CodeSnapshot is the versioned payload for code snippets.
type CodeSnapshot struct {
	Code string `bson:"code" json:"code"`
}

// Snippet is a named piece of code owned by a project. Name is the natural
// key, unique within the project; language is stored lowercase.
type Snippet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	Name        string             `bson:"name" json:"name"`
	Language    string             `bson:"language" json:"language"`
	Code        string             `bson:"code" json:"code"`
	Description string             `bson:"description" json:"description"`

	versioning.History[CodeSnapshot] `bson:",inline"`

	Tags      []string  `bson:"tags" json:"tags"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CreateSnippetInput is the payload for creating a snippet.
type CreateSnippetInput struct {
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ChangeNote  string   `json:"changeNote"`
}

// UpdateSnippetInput is a partial update; nil fields are left unchanged.
type UpdateSnippetInput struct {
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	ChangeNote  string   `json:"changeNote"`
}

// ListSnippetsOptions filters snippet listings within a project.
type ListSnippetsOptions struct {
	Language string
	Tags     []string
}
