// Package githubx validates GitHub repository URLs before they are sent to
// the backend for cloning.
package githubx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
)

var (
	ErrInvalidRepoURL = errors.New("not a GitHub repository URL")
	ErrRepoNotFound   = errors.New("repository not found or not accessible")
)

type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoURL accepts https://github.com/<owner>/<repo>, with an optional
// ".git" suffix or trailing slash.
func ParseRepoURL(raw string) (Repo, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %s", ErrInvalidRepoURL, raw)
	}
	if u.Scheme != "https" || !strings.EqualFold(u.Host, "github.com") {
		return Repo{}, fmt.Errorf("%w: %s", ErrInvalidRepoURL, raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("%w: %s", ErrInvalidRepoURL, raw)
	}

	return Repo{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git")}, nil
}

// RepoInfo is what the pre-flight check learned about a repository.
type RepoInfo struct {
	Repo          Repo
	Private       bool
	DefaultBranch string
	Language      string
	SizeKB        int
}

// Checker looks repositories up through the GitHub REST API.
type Checker struct {
	client *github.Client
}

type Option func(*Checker) error

// WithBaseURL points the checker at a different API root (GitHub Enterprise,
// tests).
func WithBaseURL(raw string) Option {
	return func(c *Checker) error {
		u, err := url.Parse(strings.TrimSuffix(raw, "/") + "/")
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		c.client.BaseURL = u
		return nil
	}
}

// NewChecker returns a Checker. An empty token makes unauthenticated calls,
// which only see public repositories.
func NewChecker(token string, opts ...Option) (*Checker, error) {
	client := github.NewClient(&http.Client{Timeout: 15 * time.Second})
	if token != "" {
		client = client.WithAuthToken(token)
	}

	c := &Checker{client: client}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Check parses rawURL and confirms the repository exists.
func (c *Checker) Check(ctx context.Context, rawURL string) (*RepoInfo, error) {
	repo, err := ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}

	r, _, err := c.client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, repo)
		}
		return nil, fmt.Errorf("github lookup %s: %w", repo, err)
	}

	return &RepoInfo{
		Repo:          Repo{Owner: r.GetOwner().GetLogin(), Name: r.GetName()},
		Private:       r.GetPrivate(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
		SizeKB:        r.GetSize(),
	}, nil
}
