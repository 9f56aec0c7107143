package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"contexthub/internal/models"
)

// ProjectContext is the aggregated read model for one project: the
// project itself plus everything needed to brief a caller in a single
// round trip.
type ProjectContext struct {
	Project        models.Project          `json:"project"`
	Documents      []models.Document       `json:"documents"`
	Skills         []models.Skill          `json:"skills"`
	Snippets       []models.Snippet        `json:"snippets,omitempty"`
	Prompts        []models.PromptTemplate `json:"prompts,omitempty"`
	Todos          []models.Todo           `json:"todos"`
	TodoStats      *models.TodoStats       `json:"todoStats"`
	CompletionRate string                  `json:"completionRate"`
}

// StatsService assembles cross-collection read models. Counts are cheap
// but fan out to five collections, so per-project results are held in a
// short-lived in-memory cache.
type StatsService struct {
	projects  *ProjectStore
	documents *DocumentStore
	skills    *SkillStore
	snippets  *SnippetStore
	prompts   *PromptStore
	todos     *TodoStore
	cache     *cache.Cache
}

// NewStatsService creates the read-model service with the given cache TTL.
func NewStatsService(projects *ProjectStore, documents *DocumentStore, skills *SkillStore, snippets *SnippetStore, prompts *PromptStore, todos *TodoStore, ttl time.Duration) *StatsService {
	return &StatsService{
		projects:  projects,
		documents: documents,
		skills:    skills,
		snippets:  snippets,
		prompts:   prompts,
		todos:     todos,
		cache:     cache.New(ttl, 2*ttl),
	}
}

// ListWithCounts lists projects decorated with per-collection counts and
// the todo rollup, plus the unpaginated total for the filter.
func (s *StatsService) ListWithCounts(ctx context.Context, opts models.ListProjectsOptions) ([]models.ProjectWithCounts, int64, error) {
	projects, err := s.projects.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projects.Count(ctx, opts.Tags, opts.IsTemplate)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.ProjectWithCounts, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i := range projects {
		i := i
		g.Go(func() error {
			pc, err := s.Counts(gctx, projects[i])
			if err != nil {
				return err
			}
			out[i] = *pc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Counts decorates one project with per-collection counts. Results are
// cached by slug for the configured TTL.
func (s *StatsService) Counts(ctx context.Context, project models.Project) (*models.ProjectWithCounts, error) {
	key := "counts:" + project.Slug
	if cached, ok := s.cache.Get(key); ok {
		pc := cached.(models.ProjectWithCounts)
		pc.Project = project
		return &pc, nil
	}

	pc := models.ProjectWithCounts{Project: project}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.documents.CountByProjectID(gctx, project.ID)
		pc.DocumentCount = int(n)
		return err
	})
	g.Go(func() error {
		n, err := s.skills.CountByProjectID(gctx, project.ID)
		pc.SkillCount = int(n)
		return err
	})
	g.Go(func() error {
		n, err := s.snippets.CountByProjectID(gctx, project.ID)
		pc.SnippetCount = int(n)
		return err
	})
	g.Go(func() error {
		n, err := s.prompts.CountByProjectID(gctx, project.ID)
		pc.PromptCount = int(n)
		return err
	})
	// Template projects are catalog entries; they carry no todo rollup
	// and no document presence map.
	if !project.IsTemplate {
		g.Go(func() error {
			stats, err := s.todos.StatsByProjectID(gctx, project.ID)
			if err != nil {
				return err
			}
			pc.TodoStats = &models.TodoRollup{
				Total:          stats.Total,
				Pending:        stats.Pending,
				InProgress:     stats.InProgress,
				Completed:      stats.Completed,
				CompletionRate: CompletionRate(stats),
			}
			return nil
		})
		g.Go(func() error {
			present, err := s.documents.TypesPresent(gctx, project.ID)
			pc.Documents = present
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.cache.Set(key, pc, cache.DefaultExpiration)
	return &pc, nil
}

// ContextOptions widens the default project context. Documents, skills,
// todos, and the rollup are always included; snippets and prompts are
// opt-in.
type ContextOptions struct {
	IncludeSnippets bool
	IncludePrompts  bool
}

// Context assembles the full aggregate for one project in parallel.
func (s *StatsService) Context(ctx context.Context, slug string, opts ContextOptions) (*ProjectContext, error) {
	project, err := s.projects.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	pctx := &ProjectContext{Project: *project}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		docs, err := s.documents.ListByProjectID(gctx, project.ID, nil)
		pctx.Documents = docs
		return err
	})
	g.Go(func() error {
		skills, err := s.skills.List(gctx, slug, models.ListSkillsOptions{ActiveOnly: true})
		pctx.Skills = skills
		return err
	})
	if opts.IncludeSnippets {
		g.Go(func() error {
			snippets, err := s.snippets.List(gctx, slug, models.ListSnippetsOptions{})
			pctx.Snippets = snippets
			return err
		})
	}
	if opts.IncludePrompts {
		g.Go(func() error {
			prompts, err := s.prompts.List(gctx, slug, models.ListPromptTemplatesOptions{})
			pctx.Prompts = prompts
			return err
		})
	}
	g.Go(func() error {
		todos, err := s.todos.List(gctx, slug, models.ListTodosOptions{})
		pctx.Todos = todos
		return err
	})
	g.Go(func() error {
		stats, err := s.todos.StatsByProjectID(gctx, project.ID)
		pctx.TodoStats = stats
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	pctx.CompletionRate = CompletionRate(pctx.TodoStats)
	return pctx, nil
}

// Invalidate drops a project's cached counts, used after writes so list
// views converge faster than the TTL.
func (s *StatsService) Invalidate(slug string) {
	s.cache.Delete("counts:" + slug)
}

// CompletionRate renders the completed share of todos as a whole
// percentage, "0%" when there are none.
func CompletionRate(stats *models.TodoStats) string {
	if stats == nil || stats.Total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(stats.Completed)/float64(stats.Total)*100)))
}
