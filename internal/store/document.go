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

// DocumentStore handles CRUD for project documents. The document type is
// the natural key: one PLAN, one SCOPE, and so on per project.
type DocumentStore struct {
	collection *mongo.Collection
	projects   *ProjectStore
}

// NewDocumentStore creates a new document store
func NewDocumentStore(db *database.MongoDB, projects *ProjectStore) *DocumentStore {
	return &DocumentStore{
		collection: db.Collection(database.CollectionDocuments),
		projects:   projects,
	}
}

// Create inserts a new document with version 1 and empty history.
// A second document of the same type in the project is ErrConflict.
func (s *DocumentStore) Create(ctx context.Context, projectSlug string, input models.CreateDocumentInput) (*models.Document, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	if n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": project.ID, "type": input.Type}); err != nil {
		return nil, fmt.Errorf("failed to check document existence: %w", err)
	} else if n > 0 {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	doc := &models.Document{
		ProjectID: project.ID,
		Type:      input.Type,
		Title:     input.Title,
		Content:   input.Content,
		History:   versioning.NewHistory[models.TextSnapshot](),
		Tags:      orEmpty(input.Tags),
		Authors:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Username != "" {
		doc.Authors = []string{input.Username}
		doc.LastAuthor = input.Username
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)

	if err := s.projects.TrackAuthor(ctx, project.ID, input.Username); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByType returns the project's document of the given type, or ErrNotFound.
func (s *DocumentStore) GetByType(ctx context.Context, projectSlug string, typ models.DocumentType) (*models.Document, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = s.collection.FindOne(ctx, bson.M{"projectId": project.ID, "type": typ}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// List returns all of the project's documents sorted by type.
func (s *DocumentStore) List(ctx context.Context, projectSlug string, tags []string) ([]models.Document, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}
	return s.ListByProjectID(ctx, project.ID, tags)
}

// ListByProjectID is List for callers that already resolved the project.
func (s *DocumentStore) ListByProjectID(ctx context.Context, projectID primitive.ObjectID, tags []string) ([]models.Document, error) {
	filter := bson.M{"projectId": projectID}
	if len(tags) > 0 {
		filter["tags"] = bson.M{"$in": tags}
	}

	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "type", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// CountByProjectID counts the project's documents.
func (s *DocumentStore) CountByProjectID(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// TypesPresent reports which document types exist for the project.
func (s *DocumentStore) TypesPresent(ctx context.Context, projectID primitive.ObjectID) (map[models.DocumentType]bool, error) {
	values, err := s.collection.Distinct(ctx, "type", bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list document types: %w", err)
	}
	present := make(map[models.DocumentType]bool, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			present[models.DocumentType(s)] = true
		}
	}
	return present, nil
}

// Update applies a partial update. A changed content field pushes the old
// content onto the history and bumps the version; equal or omitted content
// only touches metadata. Version-bumping writes are guarded by a
// compare-and-swap on currentVersion, so a lost race is ErrConflict rather
// than a silently dropped history entry.
func (s *DocumentStore) Update(ctx context.Context, projectSlug string, typ models.DocumentType, input models.UpdateDocumentInput) (*models.Document, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	if err := s.collection.FindOne(ctx, bson.M{"projectId": project.ID, "type": typ}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	now := time.Now().UTC()
	expected := doc.CurrentVersion
	bumped := false

	if input.Content != nil && *input.Content != doc.Content {
		doc.Record(models.TextSnapshot{Content: doc.Content}, input.ChangeNote, input.Username, now)
		doc.Content = *input.Content
		bumped = true
	}
	if input.Title != nil {
		doc.Title = *input.Title
	}
	if input.Tags != nil {
		doc.Tags = input.Tags
	}
	trackRecordAuthor(&doc.Authors, &doc.LastAuthor, input.Username)
	doc.UpdatedAt = now

	filter := bson.M{"_id": doc.ID}
	if bumped {
		filter["currentVersion"] = expected
	}
	res, err := s.collection.ReplaceOne(ctx, filter, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrConflict
	}
	if bumped {
		versionBumps.WithLabelValues("document").Inc()
	}

	if err := s.projects.TrackAuthor(ctx, project.ID, input.Username); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete hard-deletes the document; absence is ErrNotFound.
func (s *DocumentStore) Delete(ctx context.Context, projectSlug string, typ models.DocumentType) error {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return err
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"projectId": project.ID, "type": typ})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetVersion returns the snapshot for a version number. The current
// version is synthesized from the live fields; out-of-range is ErrNotFound.
func (s *DocumentStore) GetVersion(ctx context.Context, projectSlug string, typ models.DocumentType, version int) (*versioning.Entry[models.TextSnapshot], error) {
	doc, err := s.GetByType(ctx, projectSlug, typ)
	if err != nil {
		return nil, err
	}
	entry, ok := doc.At(version, models.TextSnapshot{Content: doc.Content}, doc.UpdatedAt)
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// VersionHistory returns all versions newest-first, including a
// synthesized entry for the current version.
func (s *DocumentStore) VersionHistory(ctx context.Context, projectSlug string, typ models.DocumentType) ([]versioning.Entry[models.TextSnapshot], error) {
	doc, err := s.GetByType(ctx, projectSlug, typ)
	if err != nil {
		return nil, err
	}
	return doc.Timeline(models.TextSnapshot{Content: doc.Content}, doc.UpdatedAt), nil
}

// trackRecordAuthor mirrors project-level author tracking on the record.
func trackRecordAuthor(authors *[]string, lastAuthor *string, username string) {
	if username == "" {
		return
	}
	for _, a := range *authors {
		if a == username {
			*lastAuthor = username
			return
		}
	}
	*authors = append(*authors, username)
	*lastAuthor = username
}
