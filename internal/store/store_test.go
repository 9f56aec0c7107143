package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"contexthub/internal/models"
)

func TestTodoFilterDefaultExcludesFinished(t *testing.T) {
	pid := primitive.NewObjectID()
	filter, err := todoFilter(pid, models.ListTodosOptions{})
	if err != nil {
		t.Fatalf("todoFilter: %v", err)
	}

	status, ok := filter["status"].(bson.M)
	if !ok {
		t.Fatalf("expected status clause, got %#v", filter["status"])
	}
	nin, ok := status["$nin"].([]models.TodoStatus)
	if !ok || len(nin) != 2 {
		t.Fatalf("expected $nin with two statuses, got %#v", status)
	}
}

func TestTodoFilterExplicitStatusWins(t *testing.T) {
	pid := primitive.NewObjectID()
	filter, err := todoFilter(pid, models.ListTodosOptions{
		Status: []models.TodoStatus{models.TodoCompleted},
	})
	if err != nil {
		t.Fatalf("todoFilter: %v", err)
	}

	status := filter["status"].(bson.M)
	in, ok := status["$in"].([]models.TodoStatus)
	if !ok || len(in) != 1 || in[0] != models.TodoCompleted {
		t.Fatalf("expected $in [completed], got %#v", status)
	}
}

func TestTodoFilterIncludeCompleted(t *testing.T) {
	pid := primitive.NewObjectID()
	filter, err := todoFilter(pid, models.ListTodosOptions{IncludeCompleted: true})
	if err != nil {
		t.Fatalf("todoFilter: %v", err)
	}
	if _, present := filter["status"]; present {
		t.Fatalf("expected no status clause, got %#v", filter["status"])
	}
}

func TestTodoFilterParentID(t *testing.T) {
	pid := primitive.NewObjectID()
	parent := primitive.NewObjectID()

	filter, err := todoFilter(pid, models.ListTodosOptions{ParentID: parent.Hex()})
	if err != nil {
		t.Fatalf("todoFilter: %v", err)
	}
	if got := filter["parentId"]; got != parent {
		t.Fatalf("expected parentId %v, got %#v", parent, got)
	}

	if _, err := todoFilter(pid, models.ListTodosOptions{ParentID: "not-an-id"}); err == nil {
		t.Fatal("expected error for malformed parent id")
	}
}

func TestTodoFilterRootOnly(t *testing.T) {
	pid := primitive.NewObjectID()
	filter, err := todoFilter(pid, models.ListTodosOptions{ParentRootOnly: true})
	if err != nil {
		t.Fatalf("todoFilter: %v", err)
	}
	clause, ok := filter["parentId"].(bson.M)
	if !ok || clause["$exists"] != false {
		t.Fatalf("expected parentId $exists false, got %#v", filter["parentId"])
	}
}

func TestComputeTodoStats(t *testing.T) {
	todos := []models.Todo{
		{Status: models.TodoPending, Priority: models.PriorityHigh},
		{Status: models.TodoPending, Priority: models.PriorityLow},
		{Status: models.TodoInProgress, Priority: models.PriorityHigh},
		{Status: models.TodoCompleted, Priority: models.PriorityMedium},
		{Status: models.TodoCancelled, Priority: models.PriorityCritical},
	}

	stats := computeTodoStats(todos)
	if stats.Total != 5 || stats.Pending != 2 || stats.InProgress != 1 || stats.Completed != 1 || stats.Cancelled != 1 {
		t.Fatalf("unexpected rollup: %+v", stats)
	}
	if stats.ByPriority["high"] != 2 || stats.ByPriority["critical"] != 1 {
		t.Fatalf("unexpected priority counts: %+v", stats.ByPriority)
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      string
	}{
		{"empty", 0, 0, "0%"},
		{"none done", 0, 4, "0%"},
		{"half", 2, 4, "50%"},
		{"rounds up", 2, 3, "67%"},
		{"rounds down", 1, 3, "33%"},
		{"all done", 3, 3, "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionRate(&models.TodoStats{Total: tt.total, Completed: tt.completed})
			if got != tt.want {
				t.Errorf("CompletionRate(%d/%d) = %q, want %q", tt.completed, tt.total, got, tt.want)
			}
		})
	}

	if got := CompletionRate(nil); got != "0%" {
		t.Errorf("CompletionRate(nil) = %q, want 0%%", got)
	}
}

func TestCategorizeProject(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{[]string{"React-Native", "ios"}, "mobile"},
		{[]string{"mern"}, "fullstack"},
		{[]string{"api", "rest"}, "backend"},
		{[]string{"SPA", "vite"}, "frontend"},
		{[]string{"nosql"}, "database"},
		{[]string{"cicd"}, "devops"},
		{[]string{"misc"}, "other"},
		{nil, "other"},
		// mobile outranks backend when both apply
		{[]string{"backend", "mobile"}, "mobile"},
	}
	for _, tt := range tests {
		if got := CategorizeProject(tt.tags); got != tt.want {
			t.Errorf("CategorizeProject(%v) = %q, want %q", tt.tags, got, tt.want)
		}
	}
}

func TestCategorizeSkill(t *testing.T) {
	tests := []struct {
		tags []string
		name string
		want string
	}{
		{[]string{"jest"}, "unit-testing-patterns", "testing"},
		{nil, "jwt-authentication", "security"},
		{[]string{"prisma"}, "orm-patterns", "database"},
		{[]string{"docker"}, "container-setup", "devops"},
		{[]string{"tailwind"}, "styling", "frontend"},
		{[]string{"validation"}, "input-handling", "backend"},
		{[]string{"git"}, "commit-conventions", "general"},
		{nil, "plain-skill", "general"},
	}
	for _, tt := range tests {
		if got := CategorizeSkill(tt.tags, tt.name); got != tt.want {
			t.Errorf("CategorizeSkill(%v, %q) = %q, want %q", tt.tags, tt.name, got, tt.want)
		}
	}
}

func TestSortedCategoryCounts(t *testing.T) {
	got := sortedCategoryCounts(map[string]int{"backend": 3, "frontend": 3, "devops": 1})
	want := []CategoryCount{{"backend", 3}, {"frontend", 3}, {"devops", 1}}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSkillFilter(t *testing.T) {
	pid := primitive.NewObjectID()
	filter := skillFilter(pid, models.ListSkillsOptions{
		Type:       models.SkillInstructions,
		Tags:       []string{"go"},
		ActiveOnly: true,
	})

	if filter["projectId"] != pid {
		t.Errorf("projectId = %#v", filter["projectId"])
	}
	if filter["type"] != models.SkillInstructions {
		t.Errorf("type = %#v", filter["type"])
	}
	if filter["isActive"] != true {
		t.Errorf("isActive = %#v", filter["isActive"])
	}
	if _, ok := filter["tags"].(bson.M); !ok {
		t.Errorf("tags clause missing: %#v", filter)
	}
}

func TestSnippetFilterLowercasesLanguage(t *testing.T) {
	pid := primitive.NewObjectID()
	filter := snippetFilter(pid, models.ListSnippetsOptions{Language: "TypeScript"})
	if filter["language"] != "typescript" {
		t.Errorf("language = %#v, want typescript", filter["language"])
	}
}

func TestTrackRecordAuthor(t *testing.T) {
	authors := []string{"ana"}
	last := "ana"

	trackRecordAuthor(&authors, &last, "ben")
	if len(authors) != 2 || authors[1] != "ben" || last != "ben" {
		t.Fatalf("after new author: authors=%v last=%q", authors, last)
	}

	trackRecordAuthor(&authors, &last, "ana")
	if len(authors) != 2 || last != "ana" {
		t.Fatalf("repeat author must not duplicate: authors=%v last=%q", authors, last)
	}

	trackRecordAuthor(&authors, &last, "")
	if len(authors) != 2 || last != "ana" {
		t.Fatalf("empty username must be a no-op: authors=%v last=%q", authors, last)
	}
}
