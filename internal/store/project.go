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
	"contexthub/internal/logging"
	"contexthub/internal/models"
)

// ProjectStore handles CRUD for projects. Deleting a project cascades to
// every child collection, todos included.
type ProjectStore struct {
	collection *mongo.Collection
	children   map[string]*mongo.Collection
}

// NewProjectStore creates a new project store
func NewProjectStore(db *database.MongoDB) *ProjectStore {
	return &ProjectStore{
		collection: db.Collection(database.CollectionProjects),
		children: map[string]*mongo.Collection{
			"document": db.Collection(database.CollectionDocuments),
			"skill":    db.Collection(database.CollectionSkills),
			"snippet":  db.Collection(database.CollectionSnippets),
			"prompt":   db.Collection(database.CollectionPromptTemplates),
			"todo":     db.Collection(database.CollectionTodos),
		},
	}
}

// Create inserts a new project. The slug is lowercased and validated;
// an existing slug is ErrConflict.
func (s *ProjectStore) Create(ctx context.Context, input models.CreateProjectInput) (*models.Project, error) {
	slug := strings.ToLower(input.Slug)
	if !models.ValidSlug.MatchString(slug) {
		return nil, fmt.Errorf("invalid slug %q: must be lowercase alphanumeric with hyphens", input.Slug)
	}

	exists, err := s.Exists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	project := &models.Project{
		Slug:        slug,
		Name:        input.Name,
		Description: input.Description,
		Tags:        orEmpty(input.Tags),
		Metadata:    input.Metadata,
		IsTemplate:  input.IsTemplate,
		Authors:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.Metadata == nil {
		project.Metadata = map[string]interface{}{}
	}
	if input.Username != "" {
		project.Authors = []string{input.Username}
		project.LastAuthor = input.Username
	}

	result, err := s.collection.InsertOne(ctx, project)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

// GetBySlug returns a project by slug, or ErrNotFound.
func (s *ProjectStore) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := s.collection.FindOne(ctx, bson.M{"slug": strings.ToLower(slug)}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// GetByID returns a project by id, or ErrNotFound.
func (s *ProjectStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// List returns projects sorted by most recently updated.
func (s *ProjectStore) List(ctx context.Context, opts models.ListProjectsOptions) ([]models.Project, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	cursor, err := s.collection.Find(ctx, projectFilter(opts.Tags, opts.IsTemplate),
		options.Find().
			SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
			SetSkip(opts.Offset).
			SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// Count counts projects matching the tag/template filters.
func (s *ProjectStore) Count(ctx context.Context, tags []string, isTemplate *bool) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, projectFilter(tags, isTemplate))
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// Exists reports whether a project with the slug exists.
func (s *ProjectStore) Exists(ctx context.Context, slug string) (bool, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{"slug": strings.ToLower(slug)})
	if err != nil {
		return false, fmt.Errorf("failed to check project existence: %w", err)
	}
	return n > 0, nil
}

// Update partially updates a project; nil input fields are left unchanged.
func (s *ProjectStore) Update(ctx context.Context, slug string, input models.UpdateProjectInput) (*models.Project, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Tags != nil {
		set["tags"] = input.Tags
	}
	if input.Metadata != nil {
		set["metadata"] = input.Metadata
	}
	if input.IsTemplate != nil {
		set["isTemplate"] = *input.IsTemplate
	}

	var project models.Project
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"slug": strings.ToLower(slug)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &project, nil
}

// Delete removes a project and all of its content records.
func (s *ProjectStore) Delete(ctx context.Context, slug string) error {
	project, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	logger := logging.WithProject(slug)
	for entity, col := range s.children {
		res, err := col.DeleteMany(ctx, bson.M{"projectId": project.ID})
		if err != nil {
			return fmt.Errorf("failed to cascade delete %ss: %w", entity, err)
		}
		cascadeDeletes.WithLabelValues(entity).Add(float64(res.DeletedCount))
		if res.DeletedCount > 0 {
			logger.Info("cascade deleted records", "entity", entity, "count", res.DeletedCount)
		}
	}

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": project.ID}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	logger.Info("project deleted")
	return nil
}

// MarkTemplates flags existing projects with the given slugs as
// templates. Used by the seeder to migrate catalogs created before the
// template flag existed.
func (s *ProjectStore) MarkTemplates(ctx context.Context, slugs []string) (int64, error) {
	if len(slugs) == 0 {
		return 0, nil
	}
	res, err := s.collection.UpdateMany(ctx,
		bson.M{"slug": bson.M{"$in": slugs}, "isTemplate": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isTemplate": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark templates: %w", err)
	}
	return res.ModifiedCount, nil
}

// TrackAuthor records a contributor on the project: added to the author
// set and stamped as last author.
func (s *ProjectStore) TrackAuthor(ctx context.Context, projectID primitive.ObjectID, username string) error {
	if username == "" {
		return nil
	}
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{
			"$addToSet": bson.M{"authors": username},
			"$set":      bson.M{"lastAuthor": username, "updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("failed to track author: %w", err)
	}
	return nil
}

// projectFilter builds the list/count filter from tag and template options.
func projectFilter(tags []string, isTemplate *bool) bson.M {
	filter := bson.M{}
	if len(tags) > 0 {
		filter["tags"] = bson.M{"$in": tags}
	}
	if isTemplate != nil {
		filter["isTemplate"] = *isTemplate
	}
	return filter
}

// orEmpty keeps slice fields non-nil so they serialize as [] not null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
