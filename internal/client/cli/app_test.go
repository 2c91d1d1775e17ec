package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/client/api"
	"github.com/dmitrijs2005/docsmith/internal/client/api/apitest"
	"github.com/dmitrijs2005/docsmith/internal/client/githubx"
	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/dmitrijs2005/docsmith/internal/client/services"
	"github.com/dmitrijs2005/docsmith/internal/client/session"
	"github.com/dmitrijs2005/docsmith/internal/client/sink"
	"github.com/dmitrijs2005/docsmith/internal/client/storage"
	"github.com/dmitrijs2005/docsmith/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv    *apitest.Server
	gw     *api.Gateway
	store  *session.Store
	tokens *storage.MemoryTokenStore
	app    *App
	out    *[]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")

	gw := api.NewGateway(srv.BaseURL())
	tokens := storage.NewMemoryTokenStore("")
	store := session.New(gw, tokens, logging.Nop())
	gw.SetTokenSource(store)
	gw.SetUnauthorizedHandler(store.Invalidate)
	require.NoError(t, store.Init(context.Background()))

	app := NewApp(Deps{
		Session:  store,
		Backend:  gw,
		Projects: services.NewProjectService(gw, logging.Nop()),
	})
	app.out = io.Discard
	app.reader = bufio.NewReader(strings.NewReader(""))

	return &harness{srv: srv, gw: gw, store: store, tokens: tokens, app: app, out: captureOutput(t)}
}

// answer stubs the interactive prompts with the given text answers and
// password, in order.
func answer(t *testing.T, password string, texts ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	answer(t, "x", "a@b.com")
	require.NoError(t, h.app.Login(context.Background()))
	require.True(t, h.app.isLoggedIn())
}

func (h *harness) printed(s string) bool {
	for _, l := range *h.out {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

func TestApp_LoginWhoAmILogout(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	assert.True(t, h.printed("Welcome, A!"))
	assert.Equal(t, "a@b.com", h.app.status())

	require.NoError(t, h.app.WhoAmI(context.Background()))
	assert.True(t, h.printed("A <a@b.com> (id 1)"))
	assert.True(t, h.printed("Session saved at "+time.Now().Format("2006-01-02")))

	require.NoError(t, h.app.Logout(context.Background()))
	assert.False(t, h.app.isLoggedIn())
	assert.Equal(t, "guest", h.app.status())
	tok, _ := h.tokens.Load(context.Background())
	assert.Empty(t, tok)
}

func TestApp_LoginFailureShowsDetail(t *testing.T) {
	h := newHarness(t)
	answer(t, "wrong", "a@b.com")

	err := h.app.Login(context.Background())
	require.Error(t, err)
	assert.True(t, h.printed("Invalid email or password"))
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_RegisterDoesNotLogIn(t *testing.T) {
	h := newHarness(t)
	answer(t, "pw", "B", "b@b.com")

	require.NoError(t, h.app.Register(context.Background()))
	assert.True(t, h.printed("Registration successful"))
	assert.False(t, h.app.isLoggedIn())

	answer(t, "pw", "C", "a@b.com")
	require.Error(t, h.app.Register(context.Background()))
	assert.True(t, h.printed("Email already registered"))

	answer(t, "", "D", "")
	assert.ErrorIs(t, h.app.Register(context.Background()), errInvalidInput)
}

func TestApp_AuthorizedWaitsForLoading(t *testing.T) {
	srv := apitest.New(t)
	gw := api.NewGateway(srv.BaseURL())
	store := session.New(gw, storage.NewMemoryTokenStore(""), logging.Nop())
	app := NewApp(Deps{Session: store, Backend: gw})
	out := captureOutput(t)

	app.loadWait = 20 * time.Millisecond
	assert.False(t, app.authorized(context.Background()))
	assert.Contains(t, *out, "Still checking your session, try again in a moment.")

	go func() { _ = store.Init(context.Background()) }()
	app.loadWait = time.Second
	assert.False(t, app.authorized(context.Background()))
	assert.Contains(t, *out, "Please log in first (use 'login' or 'register').")
}

func TestApp_ProjectsDeleteDownload(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.AddProject(models.Project{ID: "5", ProjectName: "five", PrimaryLanguage: "Go"})
	h.srv.AddProject(models.Project{ID: "7", ProjectName: "seven", PrimaryLanguage: "Python"})
	ctx := context.Background()

	require.NoError(t, h.app.Projects(ctx, []string{"sort=oldest"}))
	assert.True(t, h.printed("seven"))
	assert.True(t, h.printed("Languages: Go, Python"))

	require.Error(t, h.app.Projects(ctx, []string{"sort=sideways"}))

	h.srv.Fail(apitest.RouteProjectDel, http.StatusInternalServerError, "")
	answer(t, "", "y")
	require.Error(t, h.app.Delete(ctx, "7"))
	assert.True(t, h.printed("Failed to delete project"))
	assert.Len(t, h.app.projects.Projects(), 2)

	h.srv.Recover(apitest.RouteProjectDel)
	answer(t, "", "n")
	require.NoError(t, h.app.Delete(ctx, "7"))
	assert.True(t, h.printed("Cancelled."))
	assert.Len(t, h.srv.Projects(), 2)

	answer(t, "", "yes")
	require.NoError(t, h.app.Delete(ctx, "7"))
	assert.Len(t, h.app.projects.Projects(), 1)

	dir := t.TempDir()
	saver := sink.NewReadmeSaver(h.gw, sink.NewFileSink(dir), logging.Nop())
	h.gw.SetOpener(saver)
	h.app.saved = saver
	require.NoError(t, h.app.Download(ctx, "5"))
	assert.True(t, h.printed("README saved to "+filepath.Join(dir, "five_README.md")))
	assert.Equal(t, 1, h.app.projects.Projects()[0].ReadmeDownloadCount)
}

func TestApp_DownloadWithoutOpener(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.AddProject(models.Project{ID: "5", ProjectName: "five"})

	err := h.app.Download(context.Background(), "5")
	assert.ErrorIs(t, err, api.ErrNoOpener)
	assert.True(t, h.printed("Failed to download README"))
}

func TestApp_ProjectShowsPartialDetails(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	id := h.srv.AddProject(models.Project{ProjectName: "alpha", PrimaryLanguage: "Go"})
	h.srv.SetHealth(id, models.Health{Score: 45, Grade: "D", Issues: []string{"no tests"}})
	h.srv.Fail(apitest.RouteInsights, http.StatusInternalServerError, "")

	require.NoError(t, h.app.Project(context.Background(), string(id)))

	assert.True(t, h.printed("Score: 45 (grade D)"))
	assert.True(t, h.printed("- no tests"))
	assert.True(t, h.printed("Insights\n  unavailable"))
}

func TestApp_ExpiredSessionIsDemoted(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.RevokeTokens()

	require.Error(t, h.app.Mine(context.Background()))
	assert.True(t, h.printed("Invalid or expired token"))
	assert.False(t, h.app.isLoggedIn())
	assert.False(t, h.app.authorized(context.Background()))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestApp_Upload(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	require.NoError(t, h.app.Upload(context.Background(), writeFile(t, "shop.zip", "PK")))
	assert.True(t, h.printed("Documentation generated for shop"))

	assert.ErrorIs(t, h.app.Upload(context.Background(), "notes.txt"), errInvalidInput)
	assert.True(t, h.printed("Please select a ZIP file."))

	h.srv.Fail(apitest.RouteUploadZip, http.StatusInternalServerError, "")
	require.Error(t, h.app.Upload(context.Background(), writeFile(t, "x.zip", "PK")))
	assert.True(t, h.printed("Failed to upload file"))
}

type fakeChecker struct{ err error }

func (f fakeChecker) Check(context.Context, string) (*githubx.RepoInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &githubx.RepoInfo{Repo: githubx.Repo{Owner: "octo", Name: "hello"}}, nil
}

func TestApp_GitHub(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.app.GitHub(ctx, "https://github.com/octo/hello"))
	assert.True(t, h.printed("Documentation generated for hello"))

	h.app.checker = fakeChecker{err: githubx.ErrRepoNotFound}
	require.Error(t, h.app.GitHub(ctx, "https://github.com/octo/ghost"))
	assert.True(t, h.printed("Repository not found or not public."))
	assert.Len(t, h.srv.RequestsTo(apitest.RouteUploadGitHub), 1, "pre-flight failure skips the backend")

	h.app.checker = fakeChecker{err: errors.New("rate limited")}
	h.srv.Fail(apitest.RouteUploadGitHub, http.StatusBadRequest, "")
	require.Error(t, h.app.GitHub(ctx, "https://github.com/octo/hello"))
	assert.True(t, h.printed("Failed to clone repository"))
}

func TestApp_DocsAndDoc(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	id := h.srv.AddProject(models.Project{ProjectName: "alpha", ReadmeContent: "# alpha readme"})

	require.NoError(t, h.app.Docs(context.Background(), []string{"limit=5"}))
	assert.True(t, h.printed("alpha"))
	require.Error(t, h.app.Docs(context.Background(), []string{"limit=x"}))

	require.NoError(t, h.app.Doc(context.Background(), string(id)))
	assert.True(t, h.printed("# alpha readme"))
}

func TestApp_Summarize(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	require.NoError(t, h.app.Summarize(context.Background(), writeFile(t, "memo.txt", "Ship v2 on Friday")))
	assert.True(t, h.printed("Ship v2 on Friday"))

	assert.ErrorIs(t, h.app.Summarize(context.Background(), "song.mp3"), errInvalidInput)

	h.srv.Fail(apitest.RouteSummarize, http.StatusInternalServerError, "")
	require.Error(t, h.app.Summarize(context.Background(), writeFile(t, "memo.txt", "x")))
	assert.True(t, h.printed("Summarization failed"))
}
