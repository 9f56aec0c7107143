package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contexthub/internal/database"
	"contexthub/internal/models"
	"contexthub/internal/versioning"
)

// SnippetStore handles CRUD for code snippets. The snippet name is the
// natural key within a project; languages are normalized to lowercase.
type SnippetStore struct {
	collection *mongo.Collection
	projects   *ProjectStore
}

// NewSnippetStore creates a new snippet store
func NewSnippetStore(db *database.MongoDB, projects *ProjectStore) *SnippetStore {
	return &SnippetStore{
		collection: db.Collection(database.CollectionSnippets),
		projects:   projects,
	}
}

// Create inserts a new snippet with version 1 and empty history.
func (s *SnippetStore) Create(ctx context.Context, projectSlug string, input models.CreateSnippetInput) (*models.Snippet, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	if n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": project.ID, "name": input.Name}); err != nil {
		return nil, fmt.Errorf("failed to check snippet existence: %w", err)
	} else if n > 0 {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	snippet := &models.Snippet{
		ProjectID:   project.ID,
		Name:        input.Name,
		Language:    strings.ToLower(input.Language),
		Code:        input.Code,
		Description: input.Description,
		History:     versioning.NewHistory[models.CodeSnapshot](),
		Tags:        orEmpty(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.collection.InsertOne(ctx, snippet)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create snippet: %w", err)
	}
	snippet.ID = result.InsertedID.(primitive.ObjectID)
	return snippet, nil
}

// GetByName returns the project's snippet with the given name, or ErrNotFound.
func (s *SnippetStore) GetByName(ctx context.Context, projectSlug, name string) (*models.Snippet, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	var snippet models.Snippet
	err = s.collection.FindOne(ctx, bson.M{"projectId": project.ID, "name": name}).Decode(&snippet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snippet: %w", err)
	}
	return &snippet, nil
}

// List returns the project's snippets sorted by name, optionally filtered
// by language and tags.
func (s *SnippetStore) List(ctx context.Context, projectSlug string, opts models.ListSnippetsOptions) ([]models.Snippet, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	filter := snippetFilter(project.ID, opts)
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}
	defer cursor.Close(ctx)

	var snippets []models.Snippet
	if err := cursor.All(ctx, &snippets); err != nil {
		return nil, fmt.Errorf("failed to decode snippets: %w", err)
	}
	return snippets, nil
}

// CountByProjectID counts all snippets in a project.
func (s *SnippetStore) CountByProjectID(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count snippets: %w", err)
	}
	return n, nil
}

// Update applies a partial update. A changed code field records the old
// code in the history and bumps the version under a compare-and-swap on
// currentVersion.
func (s *SnippetStore) Update(ctx context.Context, projectSlug, name string, input models.UpdateSnippetInput) (*models.Snippet, error) {
	snippet, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expected := snippet.CurrentVersion
	bumped := false

	if input.Code != nil && *input.Code != snippet.Code {
		snippet.Record(models.CodeSnapshot{Code: snippet.Code}, input.ChangeNote, "", now)
		snippet.Code = *input.Code
		bumped = true
	}
	if input.Description != nil {
		snippet.Description = *input.Description
	}
	if input.Tags != nil {
		snippet.Tags = input.Tags
	}
	snippet.UpdatedAt = now

	filter := bson.M{"_id": snippet.ID}
	if bumped {
		filter["currentVersion"] = expected
	}
	res, err := s.collection.ReplaceOne(ctx, filter, snippet)
	if err != nil {
		return nil, fmt.Errorf("failed to update snippet: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrConflict
	}
	if bumped {
		versionBumps.WithLabelValues("snippet").Inc()
	}
	return snippet, nil
}

// Delete hard-deletes the snippet; absence is ErrNotFound.
func (s *SnippetStore) Delete(ctx context.Context, projectSlug, name string) error {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return err
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"projectId": project.ID, "name": name})
	if err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetVersion returns the snapshot for a version number, synthesizing the
// current one from live fields.
func (s *SnippetStore) GetVersion(ctx context.Context, projectSlug, name string, version int) (*versioning.Entry[models.CodeSnapshot], error) {
	snippet, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}
	entry, ok := snippet.At(version, models.CodeSnapshot{Code: snippet.Code}, snippet.UpdatedAt)
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// VersionHistory returns all versions newest-first.
func (s *SnippetStore) VersionHistory(ctx context.Context, projectSlug, name string) ([]versioning.Entry[models.CodeSnapshot], error) {
	snippet, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}
	return snippet.Timeline(models.CodeSnapshot{Code: snippet.Code}, snippet.UpdatedAt), nil
}

// snippetFilter builds the Mongo filter for a snippet listing.
func snippetFilter(projectID primitive.ObjectID, opts models.ListSnippetsOptions) bson.M {
	filter := bson.M{"projectId": projectID}
	if opts.Language != "" {
		filter["language"] = strings.ToLower(opts.Language)
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": opts.Tags}
	}
	return filter
}
