package services

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrijs2005/docsmith/internal/client/api"
	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/dmitrijs2005/docsmith/internal/logging"
)

// ProjectAPI is the subset of the gateway the project service uses.
type ProjectAPI interface {
	ListProjects(ctx context.Context, f models.ProjectFilter) ([]models.Project, error)
	UserProjects(ctx context.Context) ([]models.Project, error)
	DeleteProject(ctx context.Context, id string) (*models.DeleteResponse, error)
	DownloadReadme(ctx context.Context, id string) (*api.DownloadResult, error)
	ProjectDependencies(ctx context.Context, id string) (*models.Dependencies, error)
	ProjectHealth(ctx context.Context, id string) (*models.Health, error)
	ProjectInsights(ctx context.Context, id string) (*models.InsightList, error)
}

// Extras is the result of LoadExtras. Each part is reported on its own: a
// failed part leaves its value nil and sets its error.
type Extras struct {
	Dependencies    *models.Dependencies
	DependenciesErr error
	Health          *models.Health
	HealthErr       error
	Insights        []models.Insight
	InsightsErr     error
}

// ProjectService keeps the last loaded project list.
//
// Contract:
//   - Load / LoadMine: replace the cached list with the backend's.
//   - Delete: drop a project from the cache only after the backend confirms.
//   - Download: bump the cached counter only after the README was opened.
//   - LoadExtras: fetch dependencies, health and insights concurrently.
type ProjectService interface {
	Load(ctx context.Context, f models.ProjectFilter) ([]models.Project, error)
	LoadMine(ctx context.Context) ([]models.Project, error)
	Projects() []models.Project
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (*api.DownloadResult, error)
	LoadExtras(ctx context.Context, id string) Extras
	Languages() []string
}

type projectService struct {
	gw  ProjectAPI
	log logging.Logger

	mu       sync.Mutex
	projects []models.Project
}

func NewProjectService(gw ProjectAPI, log logging.Logger) ProjectService {
	return &projectService{gw: gw, log: log.With("component", "projects")}
}

func (s *projectService) Load(ctx context.Context, f models.ProjectFilter) ([]models.Project, error) {
	ps, err := s.gw.ListProjects(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.replace(ps), nil
}

func (s *projectService) LoadMine(ctx context.Context) ([]models.Project, error) {
	ps, err := s.gw.UserProjects(ctx)
	if err != nil {
		return nil, err
	}
	return s.replace(ps), nil
}

func (s *projectService) replace(ps []models.Project) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = slices.Clone(ps)
	return slices.Clone(ps)
}

func (s *projectService) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projects)
}

// Delete removes id on the backend and then from the cached list. On
// failure the cache is left untouched.
func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.gw.DeleteProject(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.projects = slices.DeleteFunc(s.projects, func(p models.Project) bool { return string(p.ID) == id })
	s.mu.Unlock()

	s.log.Info(ctx, "project deleted", "project_id", id)
	return nil
}

// Download opens the README of id. The cached counter follows the backend's
// count when tracking succeeded and is incremented locally otherwise.
func (s *projectService) Download(ctx context.Context, id string) (*api.DownloadResult, error) {
	res, err := s.gw.DownloadReadme(ctx, id)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	for i := range s.projects {
		if string(s.projects[i].ID) != id {
			continue
		}
		if res.Tracked {
			s.projects[i].ReadmeDownloadCount = res.DownloadCount
		} else {
			s.projects[i].ReadmeDownloadCount++
		}
	}
	s.mu.Unlock()

	return res, nil
}

// LoadExtras fetches the three detail resources of id in parallel and waits
// for all of them.
func (s *projectService) LoadExtras(ctx context.Context, id string) Extras {
	var (
		out Extras
		wg  sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		out.Dependencies, out.DependenciesErr = s.gw.ProjectDependencies(ctx, id)
	}()
	go func() {
		defer wg.Done()
		out.Health, out.HealthErr = s.gw.ProjectHealth(ctx, id)
	}()
	go func() {
		defer wg.Done()
		list, err := s.gw.ProjectInsights(ctx, id)
		if err != nil {
			out.InsightsErr = err
			return
		}
		out.Insights = list.Insights
		if out.Insights == nil {
			out.Insights = []models.Insight{}
		}
	}()
	wg.Wait()

	for part, err := range map[string]error{
		"dependencies": out.DependenciesErr,
		"health":       out.HealthErr,
		"insights":     out.InsightsErr,
	} {
		if err != nil {
			s.log.Warn(ctx, "project detail unavailable", "project_id", id, "part", part, "error", err)
		}
	}

	return out
}

// Languages lists the distinct primary languages in the cached list, sorted.
func (s *projectService) Languages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	var out []string
	for _, p := range s.projects {
		if p.PrimaryLanguage == "" {
			continue
		}
		if _, ok := seen[p.PrimaryLanguage]; ok {
			continue
		}
		seen[p.PrimaryLanguage] = struct{}{}
		out = append(out, p.PrimaryLanguage)
	}
	sort.Strings(out)
	return out
}
