package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/docsmith/internal/client/githubx"
	"github.com/dmitrijs2005/docsmith/internal/client/models"
)

var summaryExts = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// Upload sends a ZIP archive for documentation.
func (a *App) Upload(ctx context.Context, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		printlnFn("Please select a ZIP file.")
		return errInvalidInput
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn("Cannot open file:", err)
		return err
	}
	defer f.Close()

	printlnFn("Uploading and analysing, this may take a while...")
	resp, err := a.backend.UploadZip(ctx, filepath.Base(path), f)
	if err != nil {
		return a.fail(ctx, err, "Failed to upload file")
	}

	printlnFn(fmt.Sprintf("Documentation generated for %s (doc id %s).", resp.ProjectName, resp.DocID))
	return nil
}

// GitHub asks the backend to clone and document a repository. When a
// checker is configured the URL is verified against GitHub first.
func (a *App) GitHub(ctx context.Context, repoURL string) error {
	if a.checker != nil {
		info, err := a.checker.Check(ctx, repoURL)
		switch {
		case errors.Is(err, githubx.ErrInvalidRepoURL):
			printlnFn("Please enter a valid GitHub repository URL (https://github.com/owner/repo).")
			return err
		case errors.Is(err, githubx.ErrRepoNotFound):
			printlnFn("Repository not found or not public.")
			return err
		case err != nil:
			a.log.Warn(ctx, "github pre-flight failed, continuing", "error", err)
		default:
			a.log.Debug(ctx, "github pre-flight ok", "repo", info.Repo.String(), "language", info.Language)
		}
	}

	printlnFn("Cloning and analysing, this may take a while...")
	resp, err := a.backend.UploadGitHub(ctx, repoURL)
	if err != nil {
		return a.fail(ctx, err, "Failed to clone repository")
	}

	printlnFn(fmt.Sprintf("Documentation generated for %s (doc id %s).", resp.ProjectName, resp.DocID))
	return nil
}

func (a *App) Docs(ctx context.Context, args []string) error {
	opts, err := parseOptions(args, "skip", "limit")
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	var f models.DocFilter
	if f.Skip, err = intOption(opts, "skip"); err != nil {
		printlnFn(err.Error())
		return err
	}
	if f.Limit, err = intOption(opts, "limit"); err != nil {
		printlnFn(err.Error())
		return err
	}

	docs, err := a.backend.ListDocs(ctx, f)
	if err != nil {
		return a.fail(ctx, err, "Failed to load documentation")
	}
	printlnFn(formatDocs(docs))
	return nil
}

func (a *App) Doc(ctx context.Context, id string) error {
	d, err := a.backend.GetDoc(ctx, id)
	if err != nil {
		return a.fail(ctx, err, "Failed to load documentation")
	}

	printlnFn(fmt.Sprintf("%s (id %s, %s)", d.ProjectName, d.ID, orDash(d.DetectedLanguage)))
	if d.Summary != "" {
		printlnFn(d.Summary)
	}
	printlnFn("")
	printlnFn(d.ReadmeContent)
	return nil
}

func (a *App) Projects(ctx context.Context, args []string) error {
	opts, err := parseOptions(args, "language", "sort", "search", "skip", "limit")
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	f := models.ProjectFilter{Language: opts["language"], SortBy: opts["sort"], Search: opts["search"]}
	if f.SortBy != "" && f.SortBy != models.SortNewest && f.SortBy != models.SortOldest {
		err := fmt.Errorf("sort must be %s or %s", models.SortNewest, models.SortOldest)
		printlnFn(err.Error())
		return err
	}
	if f.Skip, err = intOption(opts, "skip"); err != nil {
		printlnFn(err.Error())
		return err
	}
	if f.Limit, err = intOption(opts, "limit"); err != nil {
		printlnFn(err.Error())
		return err
	}

	ps, err := a.projects.Load(ctx, f)
	if err != nil {
		return a.fail(ctx, err, "Failed to load projects")
	}

	printlnFn(formatProjects(ps))
	if langs := a.projects.Languages(); len(langs) > 0 {
		printlnFn("Languages:", strings.Join(langs, ", "))
	}
	return nil
}

func (a *App) Mine(ctx context.Context) error {
	ps, err := a.projects.LoadMine(ctx)
	if err != nil {
		return a.fail(ctx, err, "Failed to load projects")
	}
	printlnFn(formatProjects(ps))
	return nil
}

// Project shows one project with its dependencies, health and insights.
// Each detail section is shown independently of the others failing.
func (a *App) Project(ctx context.Context, id string) error {
	p, err := a.backend.GetProject(ctx, id)
	if err != nil {
		return a.fail(ctx, err, "Failed to load project")
	}

	printlnFn(formatProject(p))
	printlnFn("")
	printlnFn(formatExtras(a.projects.LoadExtras(ctx, id)))
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete project %s? This cannot be undone. (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if !confirmed(answer) {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.projects.Delete(ctx, id); err != nil {
		return a.fail(ctx, err, "Failed to delete project")
	}
	printlnFn("Project deleted.")
	return nil
}

func (a *App) Download(ctx context.Context, id string) error {
	res, err := a.projects.Download(ctx, id)
	if err != nil {
		return a.fail(ctx, err, "Failed to download README")
	}

	if res.TrackErr != nil {
		printlnFn("Note: the download counter could not be updated.")
	}
	if a.saved != nil && a.saved.LastLocation() != "" {
		printlnFn("README saved to", a.saved.LastLocation())
	} else {
		printlnFn("Opened", res.URL)
	}
	return nil
}

func (a *App) Summarize(ctx context.Context, path string) error {
	if !summaryExts[strings.ToLower(filepath.Ext(path))] {
		printlnFn("Please select a PDF, DOCX or TXT file.")
		return errInvalidInput
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn("Cannot open file:", err)
		return err
	}
	defer f.Close()

	printlnFn("Summarizing...")
	res, err := a.backend.Summarize(ctx, filepath.Base(path), f)
	if err != nil {
		return a.fail(ctx, err, "Summarization failed")
	}

	printlnFn(formatSummary(res))
	return nil
}
