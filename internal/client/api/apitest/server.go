// Package apitest runs an in-process stand-in for the documentation backend.
//
// It implements the request/response contract the client depends on (JWT
// bearer auth, uploads, documents, projects, summaries) with in-memory
// state, records every request, and lets tests force failures per route.
// It exists only to exercise the client; it is not a backend.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

// Route names accepted by Fail.
const (
	RouteLogin        = "auth.login"
	RouteRegister     = "auth.register"
	RouteMe           = "auth.me"
	RouteUploadZip    = "upload.zip"
	RouteUploadGitHub = "upload.github"
	RouteDocsList     = "docs.list"
	RouteDocsGet      = "docs.get"
	RouteDocsDownload = "docs.download"
	RouteProjectsList = "projects.list"
	RouteProjectsMine = "projects.mine"
	RouteProjectGet   = "projects.get"
	RouteProjectDel   = "projects.delete"
	RouteTrack        = "projects.download"
	RouteDependencies = "projects.dependencies"
	RouteHealth       = "projects.health"
	RouteInsights     = "projects.insights"
	RouteSummarize    = "summarize"
)

// Request is one recorded inbound request.
type Request struct {
	Route         string
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

type failure struct {
	status int
	detail string
}

type account struct {
	user     models.User
	password string
}

type Server struct {
	srv *httptest.Server

	mu           sync.Mutex
	secret       []byte
	tokenTTL     time.Duration
	staticTokens map[string]string
	accounts     map[string]*account
	nextID       int
	projects     []models.Project
	docs         []models.Documentation
	deps         map[models.ID]models.Dependencies
	health       map[models.ID]models.Health
	insights     map[models.ID][]models.Insight
	failures     map[string]failure
	requests     []Request
}

// New starts a server and stops it when t finishes.
func New(t testing.TB) *Server {
	s := &Server{
		secret:       []byte("apitest-secret"),
		tokenTTL:     time.Hour,
		staticTokens: map[string]string{},
		accounts:     map[string]*account{},
		nextID:       1,
		deps:         map[models.ID]models.Dependencies{},
		health:       map[models.ID]models.Health{},
		insights:     map[models.ID][]models.Insight{},
		failures:     map[string]failure{},
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL is the API root to hand to api.NewGateway.
func (s *Server) BaseURL() string {
	return s.srv.URL + "/api"
}

// now matches the backend's clock: UTC with microsecond precision, encoded
// without a zone offset.
func now() models.Timestamp {
	return models.Timestamp{Time: time.Now().UTC().Truncate(time.Microsecond)}
}

// AddUser registers an account directly and returns its identity.
func (s *Server) AddUser(name, email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password)
}

func (s *Server) addUserLocked(name, email, password string) models.User {
	u := models.User{ID: models.ID(strconv.Itoa(len(s.accounts) + 1)), Name: name, Email: email, CreatedAt: now()}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

// UseStaticToken makes login for email return token verbatim, and accepts
// it on protected routes until RevokeTokens.
func (s *Server) UseStaticToken(email, token string) {
	s.mu.Lock()
	s.staticTokens[token] = email
	s.mu.Unlock()
}

// IssueToken signs a token for email as the login route would.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(email)
}

func (s *Server) issueLocked(email string) string {
	for tok, e := range s.staticTokens {
		if e == email {
			return tok
		}
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// RevokeTokens invalidates every token issued so far, as if they expired.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	s.secret = append([]byte("rotated-"), s.secret...)
	s.staticTokens = map[string]string{}
	s.mu.Unlock()
}

// AddProject stores p (and a matching document) and returns its ID.
func (s *Server) AddProject(p models.Project) models.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addProjectLocked(p)
}

func (s *Server) addProjectLocked(p models.Project) models.ID {
	if p.ID == "" {
		p.ID = models.ID(strconv.Itoa(s.nextID))
	}
	if n, err := strconv.Atoi(string(p.ID)); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	s.projects = append(s.projects, p)
	s.docs = append(s.docs, models.Documentation{
		ID:               p.ID,
		ProjectName:      p.ProjectName,
		Summary:          p.Summary,
		FolderStructure:  p.FolderStructure,
		TechStack:        p.TechStack,
		DetectedLanguage: p.PrimaryLanguage,
		APIEndpoints:     p.APIEndpoints,
		ReadmeContent:    p.ReadmeContent,
		CreatedAt:        p.CreatedAt,
	})
	return p.ID
}

func (s *Server) SetDependencies(id models.ID, d models.Dependencies) {
	s.mu.Lock()
	s.deps[id] = d
	s.mu.Unlock()
}

func (s *Server) SetHealth(id models.ID, h models.Health) {
	s.mu.Lock()
	s.health[id] = h
	s.mu.Unlock()
}

func (s *Server) SetInsights(id models.ID, in []models.Insight) {
	s.mu.Lock()
	s.insights[id] = in
	s.mu.Unlock()
}

// Fail makes route answer status with detail until Recover is called.
// An empty detail sends a body without a "detail" key.
func (s *Server) Fail(route string, status int, detail string) {
	s.mu.Lock()
	s.failures[route] = failure{status: status, detail: detail}
	s.mu.Unlock()
}

func (s *Server) Recover(route string) {
	s.mu.Lock()
	delete(s.failures, route)
	s.mu.Unlock()
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo filters Requests by route.
func (s *Server) RequestsTo(route string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// Projects returns the server-side project list.
func (s *Server) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Project(nil), s.projects...)
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", s.route(RouteLogin, false, s.login)).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.route(RouteRegister, false, s.register)).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.route(RouteMe, true, s.me)).Methods(http.MethodGet)

	api.HandleFunc("/upload/zip", s.route(RouteUploadZip, true, s.uploadZip)).Methods(http.MethodPost)
	api.HandleFunc("/upload/github", s.route(RouteUploadGitHub, true, s.uploadGitHub)).Methods(http.MethodPost)

	api.HandleFunc("/docs/", s.route(RouteDocsList, true, s.listDocs)).Methods(http.MethodGet)
	api.HandleFunc("/docs/{id}", s.route(RouteDocsGet, true, s.getDoc)).Methods(http.MethodGet)
	api.HandleFunc("/docs/{id}/download", s.route(RouteDocsDownload, true, s.downloadDoc)).Methods(http.MethodGet)

	api.HandleFunc("/projects/", s.route(RouteProjectsList, true, s.listProjects)).Methods(http.MethodGet)
	api.HandleFunc("/projects/user/me", s.route(RouteProjectsMine, true, s.myProjects)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", s.route(RouteProjectGet, true, s.getProject)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", s.route(RouteProjectDel, true, s.deleteProject)).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/download", s.route(RouteTrack, true, s.trackDownload)).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/dependencies", s.route(RouteDependencies, true, s.dependencies)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/health", s.route(RouteHealth, true, s.projectHealth)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/insights", s.route(RouteInsights, true, s.projectInsights)).Methods(http.MethodGet)

	api.HandleFunc("/summarize/summarize", s.route(RouteSummarize, true, s.summarize)).Methods(http.MethodPost)

	return r
}

type handler func(w http.ResponseWriter, r *http.Request, email string)

// route records the request, applies forced failures and, for protected
// routes, validates the bearer token before calling h.
func (s *Server) route(name string, protected bool, h handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:         name,
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		f, failing := s.failures[name]
		s.mu.Unlock()

		if failing {
			if f.detail == "" {
				writeJSON(w, f.status, map[string]string{"error": http.StatusText(f.status)})
			} else {
				writeDetail(w, f.status, f.detail)
			}
			return
		}

		var email string
		if protected {
			var ok bool
			email, ok = s.authenticate(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
		}

		h(w, r, email)
	}
}

func (s *Server) authenticate(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if email, ok := s.staticTokens[raw]; ok {
		return email, s.accounts[email] != nil
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", false
	}
	if s.accounts[claims.Subject] == nil {
		return "", false
	}
	return claims.Subject, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) findProjectLocked(id string) int {
	for i, p := range s.projects {
		if string(p.ID) == id {
			return i
		}
	}
	return -1
}

func sortProjects(ps []models.Project, sortBy string) {
	sort.SliceStable(ps, func(i, j int) bool {
		if sortBy == models.SortOldest {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt.Time)
		}
		return ps[i].CreatedAt.After(ps[j].CreatedAt.Time)
	})
}
