package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
)

// Opener opens a download target, the way a browser opens a new tab.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// DownloadResult reports both steps of DownloadReadme.
type DownloadResult struct {
	ProjectID string
	URL       string
	// Tracked is true when the backend counted the download; DownloadCount
	// is then the new counter value.
	Tracked       bool
	DownloadCount int
	TrackErr      error
}

// Download is a binary response body.
type Download struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
}

// DownloadURL is the binary README endpoint for project id.
func (g *Gateway) DownloadURL(id string) string {
	return g.baseURL + "/docs/" + pathID(id) + "/download"
}

// TrackDownload increments the project's README download counter.
func (g *Gateway) TrackDownload(ctx context.Context, id string) (*models.DownloadCount, error) {
	var out models.DownloadCount
	err := g.do(ctx, call{
		op: "projects.download", method: http.MethodPost,
		path: "/projects/" + pathID(id) + "/download", protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadReadme tracks the download and then opens the download target.
//
// The steps are not transactional: a failed tracking call is recorded in
// the result and logged, and the target is opened anyway. The returned
// error only reflects the open step.
func (g *Gateway) DownloadReadme(ctx context.Context, id string) (*DownloadResult, error) {
	res := &DownloadResult{ProjectID: id, URL: g.DownloadURL(id)}

	count, err := g.TrackDownload(ctx, id)
	if err != nil {
		res.TrackErr = err
		g.log.Warn(ctx, "download tracking failed, opening target anyway", "project_id", id, "error", err)
	} else {
		res.Tracked = true
		res.DownloadCount = count.DownloadCount
	}

	if g.opener == nil {
		return res, ErrNoOpener
	}
	if err := g.opener.Open(ctx, res.URL); err != nil {
		return res, fmt.Errorf("open download target: %w", err)
	}
	return res, nil
}

// Fetch performs an authenticated GET of an absolute URL under the base
// address and returns the body unread. The caller closes Body.
func (g *Gateway) Fetch(ctx context.Context, rawURL string) (*Download, error) {
	if !strings.HasPrefix(rawURL, g.baseURL+"/") {
		return nil, fmt.Errorf("fetch %q: url outside backend %q", rawURL, g.baseURL)
	}

	c := call{
		op: "docs.download", method: http.MethodGet,
		path: strings.TrimPrefix(rawURL, g.baseURL), protected: true,
	}
	resp, err := g.sendURL(ctx, c, rawURL)
	if err != nil {
		return nil, err
	}

	return &Download{
		Body:        resp.Body,
		Filename:    attachmentName(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// FetchReadme downloads the generated README of project id.
func (g *Gateway) FetchReadme(ctx context.Context, id string) (*Download, error) {
	return g.Fetch(ctx, g.DownloadURL(id))
}

func attachmentName(disposition string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := path.Base(params["filename"]); name != "" && name != "." && name != "/" {
			return name
		}
	}
	return "README.md"
}
