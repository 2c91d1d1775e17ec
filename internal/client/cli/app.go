package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/client/api"
	"github.com/dmitrijs2005/docsmith/internal/client/githubx"
	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/dmitrijs2005/docsmith/internal/client/services"
	"github.com/dmitrijs2005/docsmith/internal/client/session"
	"github.com/dmitrijs2005/docsmith/internal/logging"
)

// SessionAPI is the session store as seen by the CLI.
type SessionAPI interface {
	Init(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, name, email, password string) (*models.RegisterResponse, error)
	Logout(ctx context.Context)
	Snapshot() session.Snapshot
	Await(ctx context.Context) (session.State, error)
	SavedAt(ctx context.Context) (time.Time, bool)
}

// BackendAPI is the part of the gateway used directly by commands.
type BackendAPI interface {
	UploadZip(ctx context.Context, filename string, r io.Reader) (*models.UploadResponse, error)
	UploadGitHub(ctx context.Context, repoURL string) (*models.UploadResponse, error)
	ListDocs(ctx context.Context, f models.DocFilter) ([]models.Documentation, error)
	GetDoc(ctx context.Context, id string) (*models.Documentation, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	Summarize(ctx context.Context, filename string, r io.Reader) (*models.SummaryResult, error)
}

// RepoChecker validates GitHub URLs before upload.
type RepoChecker interface {
	Check(ctx context.Context, rawURL string) (*githubx.RepoInfo, error)
}

// LocationReporter tells where the last downloaded README was stored.
type LocationReporter interface {
	LastLocation() string
}

// Deps are the collaborators of an App. Checker and Saved are optional.
type Deps struct {
	Session  SessionAPI
	Backend  BackendAPI
	Projects services.ProjectService
	Checker  RepoChecker
	Saved    LocationReporter
	Log      logging.Logger
}

type App struct {
	session  SessionAPI
	backend  BackendAPI
	projects services.ProjectService
	checker  RepoChecker
	saved    LocationReporter
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer
	// loadWait bounds how long a guarded command waits for the startup
	// identity check.
	loadWait time.Duration

	closers []func(ctx context.Context) error
}

func NewApp(d Deps) *App {
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		session:  d.Session,
		backend:  d.Backend,
		projects: d.Projects,
		checker:  d.Checker,
		saved:    d.Saved,
		log:      log.With("component", "cli"),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		loadWait: 10 * time.Second,
	}
}

// Run resolves the persisted session in the background, prints the banner
// and runs the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	go func() {
		if err := a.session.Init(ctx); err != nil {
			a.log.Warn(ctx, "session init failed", "error", err)
		}
	}()

	printlnFn("Welcome to docsmith (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// Close releases what NewAppFromConfig opened, in reverse order.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().State == session.Authenticated
}

func (a *App) status() string {
	snap := a.session.Snapshot()
	switch snap.State {
	case session.Authenticated:
		return snap.User.Email
	case session.Unknown:
		return "loading"
	default:
		return "guest"
	}
}

// authorized applies the session guard for a command that needs a user.
// While the startup check is still running it waits for it.
func (a *App) authorized(ctx context.Context) bool {
	decision := session.Guard(a.session.Snapshot().State)
	if decision == session.Wait {
		ctx, cancel := context.WithTimeout(ctx, a.loadWait)
		state, err := a.session.Await(ctx)
		cancel()
		if err != nil {
			printlnFn("Still checking your session, try again in a moment.")
			return false
		}
		decision = session.Guard(state)
	}

	if decision == session.Redirect {
		printlnFn("Please log in first (use 'login' or 'register').")
		return false
	}
	return true
}

// fail prints the backend's message for err, or fallback, and returns err.
func (a *App) fail(ctx context.Context, err error, fallback string) error {
	printlnFn(api.Message(err, fallback))
	a.log.Debug(ctx, "command failed", "error", err)
	return err
}
