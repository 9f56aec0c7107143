package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/versioning"
)

// DocumentType names the fixed set of per-project documents. A project
// holds at most one document of each type.
type DocumentType string

const (
	DocPlan             DocumentType = "PLAN"
	DocTodo             DocumentType = "TODO"
	DocScope            DocumentType = "SCOPE"
	DocTechstack        DocumentType = "TECHSTACK"
	DocUIUXStandards    DocumentType = "UI_UX_STANDARDS"
	DocCodingGuidelines DocumentType = "CODING_GUIDELINES"
)

// DocumentTypes lists every valid document type in display order.
var DocumentTypes = []DocumentType{
	DocPlan, DocTodo, DocScope, DocTechstack, DocUIUXStandards, DocCodingGuidelines,
}

// ParseDocumentType validates a raw document type string.
func ParseDocumentType(s string) (DocumentType, error) {
	for _, t := range DocumentTypes {
		if DocumentType(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", s)
}

// TextSnapshot is the versioned payload for documents and skills.
type TextSnapshot struct {
	Content string `bson:"content" json:"content"`
}

// Document is a typed markdown document owned by a project.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	Type      DocumentType       `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`

	versioning.History[TextSnapshot] `bson:",inline"`

	Tags       []string  `bson:"tags" json:"tags"`
	Authors    []string  `bson:"authors" json:"authors"`
	LastAuthor string    `bson:"lastAuthor,omitempty" json:"lastAuthor,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CreateDocumentInput is the payload for creating a document.
type CreateDocumentInput struct {
	Type     DocumentType `json:"type"`
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	Tags     []string     `json:"tags"`
	Username string       `json:"username"`
}

// UpdateDocumentInput is a partial update; nil fields are left unchanged.
type UpdateDocumentInput struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Tags       []string `json:"tags"`
	ChangeNote string   `json:"changeNote"`
	Username   string   `json:"username"`
}
