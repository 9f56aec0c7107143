package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contexthub/internal/database"
	"contexthub/internal/models"
	"contexthub/internal/templates"
	"contexthub/internal/versioning"
)

// PromptStore handles CRUD and rendering for prompt templates. The
// template name is the natural key within a project.
type PromptStore struct {
	collection *mongo.Collection
	projects   *ProjectStore
}

// NewPromptStore creates a new prompt template store
func NewPromptStore(db *database.MongoDB, projects *ProjectStore) *PromptStore {
	return &PromptStore{
		collection: db.Collection(database.CollectionPromptTemplates),
		projects:   projects,
	}
}

// Create inserts a new prompt template with version 1 and empty history.
// When the input declares no variables they are extracted from the
// content as optional placeholders.
func (s *PromptStore) Create(ctx context.Context, projectSlug string, input models.CreatePromptTemplateInput) (*models.PromptTemplate, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	if n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": project.ID, "name": input.Name}); err != nil {
		return nil, fmt.Errorf("failed to check prompt template existence: %w", err)
	} else if n > 0 {
		return nil, ErrConflict
	}

	vars := input.Variables
	if len(vars) == 0 {
		vars = templates.ExtractVariables(input.Content)
	}

	now := time.Now().UTC()
	prompt := &models.PromptTemplate{
		ProjectID:   project.ID,
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
		Variables:   vars,
		History:     versioning.NewHistory[models.PromptSnapshot](),
		Tags:        orEmpty(input.Tags),
		Category:    input.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.collection.InsertOne(ctx, prompt)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create prompt template: %w", err)
	}
	prompt.ID = result.InsertedID.(primitive.ObjectID)
	return prompt, nil
}

// GetByName returns the project's prompt template with the given name,
// or ErrNotFound.
func (s *PromptStore) GetByName(ctx context.Context, projectSlug, name string) (*models.PromptTemplate, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	var prompt models.PromptTemplate
	err = s.collection.FindOne(ctx, bson.M{"projectId": project.ID, "name": name}).Decode(&prompt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prompt template: %w", err)
	}
	return &prompt, nil
}

// List returns the project's prompt templates sorted by name, optionally
// filtered by category and tags.
func (s *PromptStore) List(ctx context.Context, projectSlug string, opts models.ListPromptTemplatesOptions) ([]models.PromptTemplate, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"projectId": project.ID}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": opts.Tags}
	}

	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt templates: %w", err)
	}
	defer cursor.Close(ctx)

	var prompts []models.PromptTemplate
	if err := cursor.All(ctx, &prompts); err != nil {
		return nil, fmt.Errorf("failed to decode prompt templates: %w", err)
	}
	return prompts, nil
}

// CountByProjectID counts all prompt templates in a project.
func (s *PromptStore) CountByProjectID(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count prompt templates: %w", err)
	}
	return n, nil
}

// Update applies a partial update. A changed content field records the
// old content together with its variable list, then either adopts the
// explicitly supplied variables or re-extracts them from the new content.
// Version-bumping writes are guarded by a compare-and-swap on
// currentVersion.
func (s *PromptStore) Update(ctx context.Context, projectSlug, name string, input models.UpdatePromptTemplateInput) (*models.PromptTemplate, error) {
	prompt, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expected := prompt.CurrentVersion
	bumped := false

	if input.Content != nil && *input.Content != prompt.Content {
		prompt.Record(models.PromptSnapshot{Content: prompt.Content, Variables: prompt.Variables}, input.ChangeNote, "", now)
		prompt.Content = *input.Content
		if input.Variables != nil {
			prompt.Variables = input.Variables
		} else {
			prompt.Variables = templates.ExtractVariables(prompt.Content)
		}
		bumped = true
	} else if input.Variables != nil {
		prompt.Variables = input.Variables
	}
	if input.Description != nil {
		prompt.Description = *input.Description
	}
	if input.Tags != nil {
		prompt.Tags = input.Tags
	}
	if input.Category != nil {
		prompt.Category = *input.Category
	}
	prompt.UpdatedAt = now

	filter := bson.M{"_id": prompt.ID}
	if bumped {
		filter["currentVersion"] = expected
	}
	res, err := s.collection.ReplaceOne(ctx, filter, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to update prompt template: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrConflict
	}
	if bumped {
		versionBumps.WithLabelValues("prompt").Inc()
	}
	return prompt, nil
}

// Delete hard-deletes the prompt template; absence is ErrNotFound.
func (s *PromptStore) Delete(ctx context.Context, projectSlug, name string) error {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return err
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"projectId": project.ID, "name": name})
	if err != nil {
		return fmt.Errorf("failed to delete prompt template: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Render loads the template and substitutes the supplied variables into
// its current content. Declared defaults fill absent variables; a missing
// required variable surfaces as *templates.MissingVariableError.
func (s *PromptStore) Render(ctx context.Context, projectSlug, name string, variables map[string]string) (string, error) {
	prompt, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return "", err
	}
	return templates.Render(prompt.Content, prompt.Variables, variables)
}

// GetVersion returns the snapshot for a version number, synthesizing the
// current one from live fields.
func (s *PromptStore) GetVersion(ctx context.Context, projectSlug, name string, version int) (*versioning.Entry[models.PromptSnapshot], error) {
	prompt, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}
	entry, ok := prompt.At(version, models.PromptSnapshot{Content: prompt.Content, Variables: prompt.Variables}, prompt.UpdatedAt)
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// VersionHistory returns all versions newest-first.
func (s *PromptStore) VersionHistory(ctx context.Context, projectSlug, name string) ([]versioning.Entry[models.PromptSnapshot], error) {
	prompt, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}
	return prompt.Timeline(models.PromptSnapshot{Content: prompt.Content, Variables: prompt.Variables}, prompt.UpdatedAt), nil
}
