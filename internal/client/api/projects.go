package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
)

func projectQuery(f models.ProjectFilter) url.Values {
	q := url.Values{}
	if f.Language != "" {
		q.Set("language", f.Language)
	}
	if f.SortBy != "" {
		q.Set("sort_by", f.SortBy)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

func (g *Gateway) ListProjects(ctx context.Context, f models.ProjectFilter) ([]models.Project, error) {
	var out []models.Project
	err := g.do(ctx, call{
		op: "projects.list", method: http.MethodGet, path: "/projects/",
		query: projectQuery(f), protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UserProjects lists the projects of the logged-in user's workspace.
func (g *Gateway) UserProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := g.do(ctx, call{op: "projects.mine", method: http.MethodGet, path: "/projects/user/me", protected: true}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var out models.Project
	err := g.do(ctx, call{op: "projects.get", method: http.MethodGet, path: "/projects/" + pathID(id), protected: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) DeleteProject(ctx context.Context, id string) (*models.DeleteResponse, error) {
	var out models.DeleteResponse
	err := g.do(ctx, call{op: "projects.delete", method: http.MethodDelete, path: "/projects/" + pathID(id), protected: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) ProjectDependencies(ctx context.Context, id string) (*models.Dependencies, error) {
	var out models.Dependencies
	err := g.do(ctx, call{
		op: "projects.dependencies", method: http.MethodGet,
		path: "/projects/" + pathID(id) + "/dependencies", protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) ProjectHealth(ctx context.Context, id string) (*models.Health, error) {
	var out models.Health
	err := g.do(ctx, call{
		op: "projects.health", method: http.MethodGet,
		path: "/projects/" + pathID(id) + "/health", protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) ProjectInsights(ctx context.Context, id string) (*models.InsightList, error) {
	var out models.InsightList
	err := g.do(ctx, call{
		op: "projects.insights", method: http.MethodGet,
		path: "/projects/" + pathID(id) + "/insights", protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
