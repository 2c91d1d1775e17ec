package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
)

// fileField is the multipart field name the backend reads uploads from.
const fileField = "file"

// multipartBody streams r as a single-file multipart form. The returned
// reader must be consumed (or closed by the transport) for the writer
// goroutine to exit.
func multipartBody(filename string, r io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}

// UploadZip submits a project archive for analysis.
func (g *Gateway) UploadZip(ctx context.Context, filename string, r io.Reader) (*models.UploadResponse, error) {
	body, contentType := multipartBody(filename, r)
	defer body.Close()

	var out models.UploadResponse
	err := g.do(ctx, call{
		op: "upload.zip", method: http.MethodPost, path: "/upload/zip",
		body: body, contentType: contentType, protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadGitHub asks the backend to clone and analyse repoURL.
func (g *Gateway) UploadGitHub(ctx context.Context, repoURL string) (*models.UploadResponse, error) {
	body, err := jsonBody(models.GitHubUploadRequest{RepoURL: repoURL})
	if err != nil {
		return nil, err
	}

	var out models.UploadResponse
	err = g.do(ctx, call{
		op: "upload.github", method: http.MethodPost, path: "/upload/github",
		body: body, contentType: "application/json", protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize submits a PDF, DOCX or TXT file for summarization.
func (g *Gateway) Summarize(ctx context.Context, filename string, r io.Reader) (*models.SummaryResult, error) {
	body, contentType := multipartBody(filename, r)
	defer body.Close()

	var out models.SummaryResult
	err := g.do(ctx, call{
		op: "summarize", method: http.MethodPost, path: "/summarize/summarize",
		body: body, contentType: contentType, protected: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
