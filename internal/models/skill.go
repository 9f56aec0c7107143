package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/versioning"
)

// SkillType classifies what a skill's content is.
type SkillType string

const (
	SkillInstructions   SkillType = "instructions"
	SkillCodeTemplate   SkillType = "code_template"
	SkillToolDefinition SkillType = "tool_definition"
)

// ParseSkillType validates a raw skill type string.
func ParseSkillType(s string) (SkillType, error) {
	switch SkillType(s) {
	case SkillInstructions, SkillCodeTemplate, SkillToolDefinition:
		return SkillType(s), nil
	}
	return "", fmt.Errorf("invalid skill type %q", s)
}

// Skill is a reusable instruction/template block owned by a project.
// Name is the natural key, unique within the project.
type Skill struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	Name        string             `bson:"name" json:"name"`
	Type        SkillType          `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content" json:"content"`

	versioning.History[TextSnapshot] `bson:",inline"`

	Tags      []string  `bson:"tags" json:"tags"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CreateSkillInput is the payload for creating a skill.
type CreateSkillInput struct {
	Name        string    `json:"name"`
	Type        SkillType `json:"type"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	IsActive    *bool     `json:"isActive"`
	ChangeNote  string    `json:"changeNote"`
}

// UpdateSkillInput is a partial update; nil fields are left unchanged.
type UpdateSkillInput struct {
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"isActive"`
	ChangeNote  string   `json:"changeNote"`
}

// ListSkillsOptions filters skill listings within a project.
type ListSkillsOptions struct {
	Type       SkillType
	Tags       []string
	ActiveOnly bool
}
