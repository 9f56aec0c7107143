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
	"contexthub/internal/versioning"
)

// SkillStore handles CRUD for skills. The skill name is the natural key
// within a project.
type SkillStore struct {
	collection *mongo.Collection
	projects   *ProjectStore
}

// NewSkillStore creates a new skill store
func NewSkillStore(db *database.MongoDB, projects *ProjectStore) *SkillStore {
	return &SkillStore{
		collection: db.Collection(database.CollectionSkills),
		projects:   projects,
	}
}

// Create inserts a new skill with version 1 and empty history. A second
// skill with the same name in the project is ErrConflict. Skills default
// to active unless the input says otherwise.
func (s *SkillStore) Create(ctx context.Context, projectSlug string, input models.CreateSkillInput) (*models.Skill, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	if n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": project.ID, "name": input.Name}); err != nil {
		return nil, fmt.Errorf("failed to check skill existence: %w", err)
	} else if n > 0 {
		return nil, ErrConflict
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now().UTC()
	skill := &models.Skill{
		ProjectID:   project.ID,
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		Content:     input.Content,
		History:     versioning.NewHistory[models.TextSnapshot](),
		Tags:        orEmpty(input.Tags),
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.collection.InsertOne(ctx, skill)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	skill.ID = result.InsertedID.(primitive.ObjectID)
	return skill, nil
}

// GetByName returns the project's skill with the given name, or ErrNotFound.
func (s *SkillStore) GetByName(ctx context.Context, projectSlug, name string) (*models.Skill, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	var skill models.Skill
	err = s.collection.FindOne(ctx, bson.M{"projectId": project.ID, "name": name}).Decode(&skill)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	return &skill, nil
}

// List returns the project's skills sorted by name, optionally filtered
// by type, tags, and active state.
func (s *SkillStore) List(ctx context.Context, projectSlug string, opts models.ListSkillsOptions) ([]models.Skill, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	filter := skillFilter(project.ID, opts)
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer cursor.Close(ctx)

	var skills []models.Skill
	if err := cursor.All(ctx, &skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	return skills, nil
}

// CountByProjectID counts all skills in a project.
func (s *SkillStore) CountByProjectID(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count skills: %w", err)
	}
	return n, nil
}

// Update applies a partial update. A changed content field records the
// old content in the history and bumps the version under a
// compare-and-swap on currentVersion.
func (s *SkillStore) Update(ctx context.Context, projectSlug, name string, input models.UpdateSkillInput) (*models.Skill, error) {
	skill, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expected := skill.CurrentVersion
	bumped := false

	if input.Content != nil && *input.Content != skill.Content {
		skill.Record(models.TextSnapshot{Content: skill.Content}, input.ChangeNote, "", now)
		skill.Content = *input.Content
		bumped = true
	}
	if input.Description != nil {
		skill.Description = *input.Description
	}
	if input.Tags != nil {
		skill.Tags = input.Tags
	}
	if input.IsActive != nil {
		skill.IsActive = *input.IsActive
	}
	skill.UpdatedAt = now

	filter := bson.M{"_id": skill.ID}
	if bumped {
		filter["currentVersion"] = expected
	}
	res, err := s.collection.ReplaceOne(ctx, filter, skill)
	if err != nil {
		return nil, fmt.Errorf("failed to update skill: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrConflict
	}
	if bumped {
		versionBumps.WithLabelValues("skill").Inc()
	}
	return skill, nil
}

// Delete hard-deletes the skill; absence is ErrNotFound.
func (s *SkillStore) Delete(ctx context.Context, projectSlug, name string) error {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return err
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"projectId": project.ID, "name": name})
	if err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetVersion returns the snapshot for a version number, synthesizing the
// current one from live fields.
func (s *SkillStore) GetVersion(ctx context.Context, projectSlug, name string, version int) (*versioning.Entry[models.TextSnapshot], error) {
	skill, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}
	entry, ok := skill.At(version, models.TextSnapshot{Content: skill.Content}, skill.UpdatedAt)
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// VersionHistory returns all versions newest-first.
func (s *SkillStore) VersionHistory(ctx context.Context, projectSlug, name string) ([]versioning.Entry[models.TextSnapshot], error) {
	skill, err := s.GetByName(ctx, projectSlug, name)
	if err != nil {
		return nil, err
	}
	return skill.Timeline(models.TextSnapshot{Content: skill.Content}, skill.UpdatedAt), nil
}

// skillFilter builds the Mongo filter for a skill listing.
func skillFilter(projectID primitive.ObjectID, opts models.ListSkillsOptions) bson.M {
	filter := bson.M{"projectId": projectID}
	if opts.Type != "" {
		filter["type"] = opts.Type
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": opts.Tags}
	}
	if opts.ActiveOnly {
		filter["isActive"] = true
	}
	return filter
}
