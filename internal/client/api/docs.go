package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
)

func (g *Gateway) ListDocs(ctx context.Context, f models.DocFilter) ([]models.Documentation, error) {
	q := url.Values{}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var out []models.Documentation
	err := g.do(ctx, call{op: "docs.list", method: http.MethodGet, path: "/docs/", query: q, protected: true}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) GetDoc(ctx context.Context, id string) (*models.Documentation, error) {
	var out models.Documentation
	err := g.do(ctx, call{op: "docs.get", method: http.MethodGet, path: "/docs/" + pathID(id), protected: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
