package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/client/api"
	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/dmitrijs2005/docsmith/internal/client/storage"
	"github.com/dmitrijs2005/docsmith/internal/logging"
	"github.com/dmitrijs2005/docsmith/internal/metrics"
)

// AuthAPI is the part of the backend the store talks to.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, name, email, password string) (*models.RegisterResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

type Store struct {
	auth    AuthAPI
	tokens  storage.TokenStore
	log     logging.Logger
	metrics *metrics.Metrics

	// mu guards the fields below and serialises token persistence with the
	// in-memory update, so the stored and held tokens never diverge.
	mu      sync.RWMutex
	token   string
	user    *models.User
	loading bool
	// gen changes whenever the held token does; identity results carrying
	// an older gen are dropped.
	gen     uint64
	started bool
	// ready closes when the store first leaves Unknown. settled closes when
	// the current loading phase ends; login opens a new one.
	ready   chan struct{}
	settled chan struct{}
}

type Option func(*Store)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func New(auth AuthAPI, tokens storage.TokenStore, log logging.Logger, opts ...Option) *Store {
	ready := make(chan struct{})
	s := &Store{
		auth:    auth,
		tokens:  tokens,
		log:     log.With("component", "session"),
		loading: true,
		ready:   ready,
		settled: ready,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.report()
	return s
}

// Init reads the persisted token and, if there is one, resolves the identity
// it belongs to. It returns once the store has left Unknown. A storage read
// failure is returned after the store has settled as Anonymous. Init is a
// no-op once it has run or once a login or logout has set the session.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.gen != 0 {
		s.mu.Unlock()
		return nil
	}
	s.started = true

	tok, err := s.tokens.Load(ctx)
	if err != nil || tok == "" {
		s.settleLocked()
		s.mu.Unlock()
		s.report()
		if err != nil {
			return fmt.Errorf("load persisted token: %w", err)
		}
		s.log.Info(ctx, "no persisted token")
		return nil
	}

	s.token = tok
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.resolve(ctx, tok, gen)
	return nil
}

// Login exchanges credentials for a token, persists it and resolves the
// identity. Backend errors are returned unchanged and leave the state as it
// was. If the identity lookup fails afterwards the store falls back to
// Anonymous, but the login payload is still returned. Until the identity is
// known the store reports Unknown, so guards wait instead of redirecting.
func (s *Store) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.tokens.Save(ctx, resp.AccessToken); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("persist token: %w", err)
	}
	s.token = resp.AccessToken
	s.user = nil
	s.gen++
	gen := s.gen
	s.beginLoadingLocked()
	s.mu.Unlock()
	s.report()

	s.log.Info(ctx, "logged in", "email", email)
	s.resolve(ctx, resp.AccessToken, gen)
	return resp, nil
}

// Register creates an account. It never changes the session.
func (s *Store) Register(ctx context.Context, name, email, password string) (*models.RegisterResponse, error) {
	return s.auth.Register(ctx, name, email, password)
}

// Logout forgets the token and identity. A failure to clear the persisted
// token is logged, not returned.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked(ctx)
	s.mu.Unlock()

	s.report()
	s.log.Info(ctx, "logged out")
}

// Invalidate demotes the session if token is still the one held. The
// gateway calls it when a request made with token is rejected as
// unauthorized.
func (s *Store) Invalidate(ctx context.Context, token string) {
	s.mu.Lock()
	if token == "" || token != s.token {
		s.mu.Unlock()
		return
	}
	s.clearLocked(ctx)
	s.mu.Unlock()

	s.report()
	s.log.Warn(ctx, "token rejected by backend, session cleared")
}

// resolve fetches the identity for tok with tok pinned on the request.
func (s *Store) resolve(ctx context.Context, tok string, gen uint64) {
	user, err := s.auth.Me(api.WithToken(ctx, tok))

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale identity result")
		return
	}
	if err != nil {
		s.clearLocked(ctx)
	} else {
		s.user = user
		s.settleLocked()
	}
	s.mu.Unlock()

	s.report()
	if err != nil {
		s.log.Warn(ctx, "identity resolution failed, session cleared", "error", err)
		return
	}
	s.log.Info(ctx, "identity resolved", "user_id", user.ID, "email", user.Email)
}

// clearLocked drops the session. Caller holds mu.
func (s *Store) clearLocked(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear persisted token", "error", err)
	}
	s.token = ""
	s.user = nil
	s.gen++
	s.settleLocked()
}

// beginLoadingLocked enters Unknown. Caller holds mu.
func (s *Store) beginLoadingLocked() {
	if !s.loading {
		s.settled = make(chan struct{})
	}
	s.loading = true
}

// settleLocked leaves Unknown and wakes Await callers. Caller holds mu.
func (s *Store) settleLocked() {
	s.loading = false
	select {
	case <-s.settled:
	default:
		close(s.settled)
	}
}

func (s *Store) report() {
	if s.metrics != nil {
		s.metrics.SetSessionState(s.State().String(), states...)
	}
}

// Token returns the held bearer token, or "" when none is held.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the resolved identity, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	switch {
	case s.loading:
		return Unknown
	case s.user != nil:
		return Authenticated
	default:
		return Anonymous
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State:   s.stateLocked(),
		Token:   s.token,
		User:    copyUser(s.user),
		Loading: s.loading,
	}
}

// SavedAt reports when the held token was persisted. ok is false when no
// token is held or the store does not know.
func (s *Store) SavedAt(ctx context.Context) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return time.Time{}, false
	}
	at, ok, err := s.tokens.SavedAt(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to read token save time", "error", err)
		return time.Time{}, false
	}
	return at, ok
}

// Ready is closed once the store has left Unknown.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Await blocks until the current loading phase ends or ctx is done, then
// returns the state.
func (s *Store) Await(ctx context.Context) (State, error) {
	s.mu.RLock()
	settled := s.settled
	s.mu.RUnlock()

	select {
	case <-settled:
		return s.State(), nil
	case <-ctx.Done():
		return Unknown, ctx.Err()
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

var _ api.TokenSource = (*Store)(nil)
