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

// TodoStore handles the todo lifecycle. Todos are addressed by ObjectID
// rather than a natural key, and version the title/description/status
// trio: a change to any of the three appends a snapshot.
type TodoStore struct {
	collection *mongo.Collection
	projects   *ProjectStore
}

// NewTodoStore creates a new todo store
func NewTodoStore(db *database.MongoDB, projects *ProjectStore) *TodoStore {
	return &TodoStore{
		collection: db.Collection(database.CollectionTodos),
		projects:   projects,
	}
}

// Create inserts a new todo with version 1 and empty history. A non-empty
// ParentID must name an existing todo in the same project.
func (s *TodoStore) Create(ctx context.Context, projectSlug string, input models.CreateTodoInput) (*models.Todo, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	var parentID *primitive.ObjectID
	if input.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent todo id %q", input.ParentID)
		}
		n, err := s.collection.CountDocuments(ctx, bson.M{"_id": pid, "projectId": project.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to check parent todo: %w", err)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		parentID = &pid
	}

	status := input.Status
	if status == "" {
		status = models.TodoPending
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	todo := &models.Todo{
		ProjectID:        project.ID,
		Title:            input.Title,
		Description:      input.Description,
		Status:           status,
		Priority:         priority,
		ParentID:         parentID,
		History:          versioning.NewHistory[models.TodoSnapshot](),
		Tags:             orEmpty(input.Tags),
		DueDate:          input.DueDate,
		QuestionsAnswers: input.QuestionsAnswers,
		Authors:          []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if todo.QuestionsAnswers == nil {
		todo.QuestionsAnswers = []models.TodoQA{}
	}
	if status == models.TodoCompleted {
		todo.CompletedAt = &now
	}
	if input.Username != "" {
		todo.Authors = []string{input.Username}
		todo.LastAuthor = input.Username
	}

	result, err := s.collection.InsertOne(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	todo.ID = result.InsertedID.(primitive.ObjectID)

	if err := s.projects.TrackAuthor(ctx, project.ID, input.Username); err != nil {
		return nil, err
	}
	return todo, nil
}

// GetByID returns the todo with the given id, or ErrNotFound.
func (s *TodoStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error) {
	var todo models.Todo
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&todo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return &todo, nil
}

// List returns the project's todos newest-first. Without an explicit
// status filter or IncludeCompleted, completed and cancelled todos are
// left out.
func (s *TodoStore) List(ctx context.Context, projectSlug string, opts models.ListTodosOptions) ([]models.Todo, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	filter, err := todoFilter(project.ID, opts)
	if err != nil {
		return nil, err
	}

	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer cursor.Close(ctx)

	var todos []models.Todo
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}
	return todos, nil
}

// Update applies a partial update by id. A change to the title,
// description, or status trio snapshots the old trio and bumps the
// version under a compare-and-swap on currentVersion. Entering completed
// stamps CompletedAt; leaving it clears the stamp.
func (s *TodoStore) Update(ctx context.Context, id primitive.ObjectID, input models.UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expected := todo.CurrentVersion
	prior := models.TodoSnapshot{Title: todo.Title, Description: todo.Description, Status: todo.Status}
	bumped := false

	if input.Title != nil && *input.Title != todo.Title {
		todo.Title = *input.Title
		bumped = true
	}
	if input.Description != nil && *input.Description != todo.Description {
		todo.Description = *input.Description
		bumped = true
	}
	if input.Status != nil && *input.Status != todo.Status {
		todo.Status = *input.Status
		bumped = true
		if todo.Status == models.TodoCompleted {
			todo.CompletedAt = &now
		} else {
			todo.CompletedAt = nil
		}
	}
	if bumped {
		todo.Record(prior, input.ChangeNote, input.Username, now)
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.Tags != nil {
		todo.Tags = input.Tags
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}
	trackRecordAuthor(&todo.Authors, &todo.LastAuthor, input.Username)
	todo.UpdatedAt = now

	filter := bson.M{"_id": todo.ID}
	if bumped {
		filter["currentVersion"] = expected
	}
	res, err := s.collection.ReplaceOne(ctx, filter, todo)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrConflict
	}
	if bumped {
		versionBumps.WithLabelValues("todo").Inc()
	}

	if err := s.projects.TrackAuthor(ctx, todo.ProjectID, input.Username); err != nil {
		return nil, err
	}
	return todo, nil
}

// MarkComplete moves the todo to completed.
func (s *TodoStore) MarkComplete(ctx context.Context, id primitive.ObjectID, note, username string) (*models.Todo, error) {
	status := models.TodoCompleted
	return s.Update(ctx, id, models.UpdateTodoInput{Status: &status, ChangeNote: note, Username: username})
}

// MarkInProgress moves the todo to in_progress.
func (s *TodoStore) MarkInProgress(ctx context.Context, id primitive.ObjectID, note, username string) (*models.Todo, error) {
	status := models.TodoInProgress
	return s.Update(ctx, id, models.UpdateTodoInput{Status: &status, ChangeNote: note, Username: username})
}

// AddQA appends one question/answer pair. The QA list does not
// participate in versioning.
func (s *TodoStore) AddQA(ctx context.Context, id primitive.ObjectID, input models.AddTodoQAInput) (*models.Todo, error) {
	qa := models.TodoQA{
		Question: input.Question,
		Answer:   input.Answer,
		Context:  input.Context,
		AskedAt:  time.Now().UTC(),
	}

	res := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"questionsAnswers": qa},
			"$set":  bson.M{"updatedAt": qa.AskedAt},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var todo models.Todo
	if err := res.Decode(&todo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add todo qa: %w", err)
	}

	if err := s.projects.TrackAuthor(ctx, todo.ProjectID, input.Username); err != nil {
		return nil, err
	}
	return &todo, nil
}

// QAs returns the todo's question/answer list in insertion order.
func (s *TodoStore) QAs(ctx context.Context, id primitive.ObjectID) ([]models.TodoQA, error) {
	todo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return todo.QuestionsAnswers, nil
}

// Subtasks returns the direct children of a todo, newest-first.
func (s *TodoStore) Subtasks(ctx context.Context, id primitive.ObjectID) ([]models.Todo, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	cursor, err := s.collection.Find(ctx, bson.M{"parentId": id},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	defer cursor.Close(ctx)

	var todos []models.Todo
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("failed to decode subtasks: %w", err)
	}
	return todos, nil
}

// Delete removes the todo and its direct subtasks.
func (s *TodoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	children, err := s.collection.DeleteMany(ctx, bson.M{"parentId": id})
	if err != nil {
		return fmt.Errorf("failed to delete subtasks: %w", err)
	}
	if children.DeletedCount > 0 {
		cascadeDeletes.WithLabelValues("todo").Add(float64(children.DeletedCount))
	}
	return nil
}

// Stats computes the project's todo rollup across every status.
func (s *TodoStore) Stats(ctx context.Context, projectSlug string) (*models.TodoStats, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}
	return s.StatsByProjectID(ctx, project.ID)
}

// StatsByProjectID is Stats for callers that already resolved the project.
func (s *TodoStore) StatsByProjectID(ctx context.Context, projectID primitive.ObjectID) (*models.TodoStats, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load todos for stats: %w", err)
	}
	defer cursor.Close(ctx)

	var todos []models.Todo
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("failed to decode todos for stats: %w", err)
	}
	return computeTodoStats(todos), nil
}

// GetVersion returns the trio snapshot for a version number, synthesizing
// the current one from live fields.
func (s *TodoStore) GetVersion(ctx context.Context, id primitive.ObjectID, version int) (*versioning.Entry[models.TodoSnapshot], error) {
	todo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	live := models.TodoSnapshot{Title: todo.Title, Description: todo.Description, Status: todo.Status}
	entry, ok := todo.At(version, live, todo.UpdatedAt)
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// VersionHistory returns all trio versions newest-first.
func (s *TodoStore) VersionHistory(ctx context.Context, id primitive.ObjectID) ([]versioning.Entry[models.TodoSnapshot], error) {
	todo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	live := models.TodoSnapshot{Title: todo.Title, Description: todo.Description, Status: todo.Status}
	return todo.Timeline(live, todo.UpdatedAt), nil
}

// todoFilter builds the Mongo filter for a todo listing.
func todoFilter(projectID primitive.ObjectID, opts models.ListTodosOptions) (bson.M, error) {
	filter := bson.M{"projectId": projectID}

	switch {
	case len(opts.Status) > 0:
		filter["status"] = bson.M{"$in": opts.Status}
	case !opts.IncludeCompleted:
		filter["status"] = bson.M{"$nin": []models.TodoStatus{models.TodoCompleted, models.TodoCancelled}}
	}

	if len(opts.Priority) > 0 {
		filter["priority"] = bson.M{"$in": opts.Priority}
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": opts.Tags}
	}

	switch {
	case opts.ParentID != "":
		pid, err := primitive.ObjectIDFromHex(opts.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent todo id %q", opts.ParentID)
		}
		filter["parentId"] = pid
	case opts.ParentRootOnly:
		filter["parentId"] = bson.M{"$exists": false}
	}

	return filter, nil
}

// computeTodoStats folds a todo list into the rollup.
func computeTodoStats(todos []models.Todo) *models.TodoStats {
	stats := &models.TodoStats{ByPriority: map[string]int{}}
	for _, t := range todos {
		stats.Total++
		switch t.Status {
		case models.TodoPending:
			stats.Pending++
		case models.TodoInProgress:
			stats.InProgress++
		case models.TodoCompleted:
			stats.Completed++
		case models.TodoCancelled:
			stats.Cancelled++
		}
		stats.ByPriority[string(t.Priority)]++
	}
	return stats
}
