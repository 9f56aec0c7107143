package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"contexthub/internal/models"
)

// CatalogService exposes the template catalog: the seeded template
// projects and the skills they carry, grouped into browse-friendly
// categories derived from tags.
type CatalogService struct {
	projects *ProjectStore
	skills   *SkillStore
	stats    *StatsService
}

// NewCatalogService creates a catalog browser
func NewCatalogService(projects *ProjectStore, skills *SkillStore, stats *StatsService) *CatalogService {
	return &CatalogService{projects: projects, skills: skills, stats: stats}
}

// CatalogProject is one template in the browse view.
type CatalogProject struct {
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	Counts      CatalogCounts `json:"counts"`
}

// CatalogCounts summarizes a template's content.
type CatalogCounts struct {
	Documents int `json:"documents"`
	Skills    int `json:"skills"`
	Snippets  int `json:"snippets"`
	Prompts   int `json:"prompts"`
}

// CategoryCount pairs a category name with how many entries fall into it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogResult is the browse response; Categories counts the full
// catalog regardless of the active filter.
type CatalogResult struct {
	Projects   []CatalogProject `json:"projects"`
	TotalCount int              `json:"totalCount"`
	Categories []CategoryCount  `json:"categories"`
}

// Browse lists template projects with content counts, optionally
// narrowed to a category or a free-text term matched against name,
// description, and tags.
func (c *CatalogService) Browse(ctx context.Context, category, search string) (*CatalogResult, error) {
	isTemplate := true
	withCounts, _, err := c.stats.ListWithCounts(ctx, models.ListProjectsOptions{IsTemplate: &isTemplate})
	if err != nil {
		return nil, err
	}

	all := make([]CatalogProject, len(withCounts))
	for i, pc := range withCounts {
		all[i] = CatalogProject{
			Slug:        pc.Slug,
			Name:        pc.Name,
			Description: pc.Description,
			Category:    CategorizeProject(pc.Tags),
			Tags:        pc.Tags,
			Counts: CatalogCounts{
				Documents: pc.DocumentCount,
				Skills:    pc.SkillCount,
				Snippets:  pc.SnippetCount,
				Prompts:   pc.PromptCount,
			},
		}
	}

	filtered := all
	if category != "" && category != "all" {
		filtered = filterCatalog(filtered, func(p CatalogProject) bool { return p.Category == category })
	}
	if search != "" {
		term := strings.ToLower(search)
		filtered = filterCatalog(filtered, func(p CatalogProject) bool {
			return strings.Contains(strings.ToLower(p.Name), term) ||
				strings.Contains(strings.ToLower(p.Description), term) ||
				tagsContain(p.Tags, term)
		})
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	counts := map[string]int{}
	for _, p := range all {
		counts[p.Category]++
	}

	return &CatalogResult{
		Projects:   filtered,
		TotalCount: len(filtered),
		Categories: sortedCategoryCounts(counts),
	}, nil
}

// CatalogSkill is one deduplicated skill in the browse view.
type CatalogSkill struct {
	Name        string           `json:"name"`
	Type        models.SkillType `json:"type"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Tags        []string         `json:"tags"`
}

// SkillCatalogResult is the skill browse response.
type SkillCatalogResult struct {
	Skills     []CatalogSkill  `json:"skills"`
	TotalCount int             `json:"totalCount"`
	Categories []CategoryCount `json:"categories"`
	Types      []CategoryCount `json:"types"`
}

// BrowseSkills lists the unique skills carried by template projects,
// deduplicated by name, optionally narrowed by category, type, or a
// free-text term.
func (c *CatalogService) BrowseSkills(ctx context.Context, category string, typ models.SkillType, search string) (*SkillCatalogResult, error) {
	isTemplate := true
	projects, err := c.projects.List(ctx, models.ListProjectsOptions{IsTemplate: &isTemplate})
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var all []CatalogSkill
	for _, project := range projects {
		skills, err := c.skills.List(ctx, project.Slug, models.ListSkillsOptions{})
		if err != nil {
			return nil, err
		}
		for _, skill := range skills {
			if seen[skill.Name] {
				continue
			}
			seen[skill.Name] = true
			all = append(all, CatalogSkill{
				Name:        skill.Name,
				Type:        skill.Type,
				Description: skill.Description,
				Category:    CategorizeSkill(skill.Tags, skill.Name),
				Tags:        skill.Tags,
			})
		}
	}

	filtered := all
	if category != "" && category != "all" {
		filtered = filterSkills(filtered, func(s CatalogSkill) bool { return s.Category == category })
	}
	if typ != "" && typ != "all" {
		filtered = filterSkills(filtered, func(s CatalogSkill) bool { return s.Type == typ })
	}
	if search != "" {
		term := strings.ToLower(search)
		filtered = filterSkills(filtered, func(s CatalogSkill) bool {
			return strings.Contains(strings.ToLower(s.Name), term) ||
				strings.Contains(strings.ToLower(s.Description), term) ||
				tagsContain(s.Tags, term)
		})
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	categoryCounts := map[string]int{}
	typeCounts := map[string]int{}
	for _, s := range all {
		categoryCounts[s.Category]++
		typeCounts[string(s.Type)]++
	}

	return &SkillCatalogResult{
		Skills:     filtered,
		TotalCount: len(filtered),
		Categories: sortedCategoryCounts(categoryCounts),
		Types:      sortedCategoryCounts(typeCounts),
	}, nil
}

// FindSkill resolves a skill by name. With an empty project slug the
// catalog projects are scanned in list order and the first match wins.
func (c *CatalogService) FindSkill(ctx context.Context, name, projectSlug string) (*models.Skill, error) {
	if projectSlug != "" {
		return c.skills.GetByName(ctx, projectSlug, name)
	}

	projects, err := c.projects.List(ctx, models.ListProjectsOptions{})
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		skill, err := c.skills.GetByName(ctx, project.Slug, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return skill, nil
	}
	return nil, ErrNotFound
}

// CategorizeProject buckets a template by its tags. First match wins,
// checked from the most specific bucket down.
func CategorizeProject(tags []string) string {
	set := lowerSet(tags)
	switch {
	case set["mobile"] || set["react-native"]:
		return "mobile"
	case set["fullstack"] || set["mern"] || set["mean"]:
		return "fullstack"
	case set["backend"] || set["api"]:
		return "backend"
	case set["frontend"] || set["spa"]:
		return "frontend"
	case set["database"] || set["orm"] || set["sql"] || set["nosql"]:
		return "database"
	case set["devops"] || set["deployment"] || set["cicd"]:
		return "devops"
	}
	return "other"
}

// CategorizeSkill buckets a skill by its tags and name.
func CategorizeSkill(tags []string, name string) string {
	set := lowerSet(tags)
	nameLower := strings.ToLower(name)
	switch {
	case set["testing"] || set["test"] || strings.Contains(nameLower, "test"):
		return "testing"
	case set["security"] || set["auth"] || strings.Contains(nameLower, "security") || strings.Contains(nameLower, "auth"):
		return "security"
	case set["database"] || set["orm"] || set["sql"] || set["prisma"] || set["drizzle"] || set["mongoose"]:
		return "database"
	case set["devops"] || set["docker"] || set["deployment"] || set["logging"] || set["monitoring"]:
		return "devops"
	case set["react"] || set["vue"] || set["frontend"] || set["css"] || set["tailwind"] || set["state"]:
		return "frontend"
	case set["api"] || set["backend"] || set["express"] || set["validation"]:
		return "backend"
	}
	return "general"
}

func lowerSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = true
	}
	return set
}

func tagsContain(tags []string, term string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

func filterCatalog(in []CatalogProject, keep func(CatalogProject) bool) []CatalogProject {
	out := in[:0:0]
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func filterSkills(in []CatalogSkill, keep func(CatalogSkill) bool) []CatalogSkill {
	out := in[:0:0]
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// sortedCategoryCounts orders buckets most-populated first, name as the
// tie-break so output is stable.
func sortedCategoryCounts(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
