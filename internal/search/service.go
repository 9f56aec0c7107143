// Package search implements federated full-text search across documents,
// skills, snippets, and prompt templates. Each collection is queried with
// its own text-index aggregation; the per-collection top 100 are merged,
// globally ranked by score, and paginated.
package search

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"contexthub/internal/database"
	"contexthub/internal/models"
)

// perTypeLimit caps each collection's contribution before the merge.
const perTypeLimit = 100

// Service runs federated searches. The four collection queries of one
// search run in parallel; any failing leg fails the whole search.
type Service struct {
	projects  *mongo.Collection
	documents *mongo.Collection
	skills    *mongo.Collection
	snippets  *mongo.Collection
	prompts   *mongo.Collection
}

// NewService creates a search service
func NewService(db *database.MongoDB) *Service {
	return &Service{
		projects:  db.Collection(database.CollectionProjects),
		documents: db.Collection(database.CollectionDocuments),
		skills:    db.Collection(database.CollectionSkills),
		snippets:  db.Collection(database.CollectionSnippets),
		prompts:   db.Collection(database.CollectionPromptTemplates),
	}
}

// Search executes one federated query. An unknown project scope returns
// an empty response rather than an error, matching the REST contract.
func (s *Service) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	var projectID *primitive.ObjectID
	if q.ProjectSlug != "" {
		var project models.Project
		err := s.projects.FindOne(ctx, bson.M{"slug": q.ProjectSlug}).Decode(&project)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return &models.SearchResponse{Results: []models.SearchResult{}, Total: 0, Query: q.Query}, nil
			}
			return nil, fmt.Errorf("failed to resolve project scope: %w", err)
		}
		projectID = &project.ID
	}

	types := q.Types
	if len(types) == 0 {
		types = models.AllSearchTypes
	}

	sets := make([][]models.SearchResult, len(types))
	g, gctx := errgroup.WithContext(ctx)
	for i, typ := range types {
		i, typ := i, typ
		g.Go(func() error {
			results, err := s.searchOne(gctx, typ, q, projectID)
			if err != nil {
				return err
			}
			sets[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results, total := mergeAndPage(sets, q.Limit, q.Offset)
	return &models.SearchResponse{Results: results, Total: total, Query: q.Query}, nil
}

// row is the normalized projection every per-type pipeline decodes into.
type row struct {
	ProjectSlug string    `bson:"projectSlug"`
	Name        string    `bson:"name"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Content     string    `bson:"content"`
	Code        string    `bson:"code"`
	Language    string    `bson:"language"`
	Category    string    `bson:"category"`
	Score       float64   `bson:"score"`
	Tags        []string  `bson:"tags"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func (s *Service) searchOne(ctx context.Context, typ models.SearchType, q models.SearchQuery, projectID *primitive.ObjectID) ([]models.SearchResult, error) {
	var collection *mongo.Collection
	var project bson.D

	match := bson.M{"$text": bson.M{"$search": q.Query}}
	if projectID != nil {
		match["projectId"] = *projectID
	}
	if len(q.Tags) > 0 {
		match["tags"] = bson.M{"$in": q.Tags}
	}

	switch typ {
	case models.SearchDocument:
		collection = s.documents
		project = bson.D{
			{Key: "name", Value: "$type"},
			{Key: "title", Value: 1},
			{Key: "content", Value: 1},
		}
	case models.SearchSkill:
		collection = s.skills
		match["isActive"] = true
		project = bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "content", Value: 1},
		}
	case models.SearchSnippet:
		collection = s.snippets
		project = bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "code", Value: 1},
			{Key: "language", Value: 1},
		}
	case models.SearchPrompt:
		collection = s.prompts
		project = bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "content", Value: 1},
			{Key: "category", Value: 1},
		}
	default:
		return nil, fmt.Errorf("invalid search type %q", typ)
	}

	project = append(project,
		bson.E{Key: "projectSlug", Value: "$project.slug"},
		bson.E{Key: "score", Value: 1},
		bson.E{Key: "tags", Value: 1},
		bson.E{Key: "updatedAt", Value: 1},
	)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"score": bson.M{"$meta": "textScore"}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.CollectionProjects,
			"localField":   "projectId",
			"foreignField": "_id",
			"as":           "project",
		}}},
		{{Key: "$unwind", Value: "$project"}},
		{{Key: "$project", Value: project}},
		{{Key: "$sort", Value: bson.D{{Key: "score", Value: -1}}}},
		{{Key: "$limit", Value: perTypeLimit}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search %ss: %w", typ, err)
	}
	defer cursor.Close(ctx)

	var rows []row
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s results: %w", typ, err)
	}

	results := make([]models.SearchResult, len(rows))
	for i, r := range rows {
		results[i] = normalizeRow(typ, r, q.Query)
	}
	return results, nil
}

// normalizeRow maps a per-collection projection into the shared result
// shape. Excerpts come from the description when present, falling back to
// the body field.
func normalizeRow(typ models.SearchType, r row, query string) models.SearchResult {
	result := models.SearchResult{
		Type:        typ,
		ProjectSlug: r.ProjectSlug,
		Name:        r.Name,
		Score:       r.Score,
		Tags:        r.Tags,
		UpdatedAt:   r.UpdatedAt,
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}

	switch typ {
	case models.SearchDocument:
		result.Title = r.Title
		result.Excerpt = Excerpt(r.Content, query)
	case models.SearchSkill:
		result.Excerpt = Excerpt(firstNonEmpty(r.Description, r.Content), query)
	case models.SearchSnippet:
		result.Title = fmt.Sprintf("%s (%s)", r.Name, r.Language)
		result.Excerpt = Excerpt(firstNonEmpty(r.Description, r.Code), query)
	case models.SearchPrompt:
		result.Title = r.Name
		if r.Category != "" {
			result.Title = fmt.Sprintf("%s (%s)", r.Name, r.Category)
		}
		result.Excerpt = Excerpt(firstNonEmpty(r.Description, r.Content), query)
	}
	return result
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
