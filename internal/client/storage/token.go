package storage

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/dbx"
)

const (
	keyAccessToken = "access_token"
	keyTokenSaved  = "access_token_saved_at"
)

// TokenStore persists the single bearer token. An empty string from Load
// means no token is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	// SavedAt reports when the current token was stored. ok is false when
	// no token is stored or the time is unknown.
	SavedAt(ctx context.Context) (at time.Time, ok bool, err error)
}

// SQLiteTokenStore keeps the token in the metadata table.
type SQLiteTokenStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteTokenStore(db *sql.DB) *SQLiteTokenStore {
	return &SQLiteTokenStore{db: db, now: time.Now}
}

func (s *SQLiteTokenStore) Load(ctx context.Context) (string, error) {
	v, err := NewMetadataRepository(s.db).Get(ctx, keyAccessToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Save replaces the stored token and its timestamp in one transaction.
func (s *SQLiteTokenStore) Save(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewMetadataRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyTokenSaved, []byte(s.now().UTC().Format(time.RFC3339)))
	})
}

func (s *SQLiteTokenStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewMetadataRepository(tx)
		if err := repo.Delete(ctx, keyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyTokenSaved)
	})
}

func (s *SQLiteTokenStore) SavedAt(ctx context.Context) (at time.Time, ok bool, err error) {
	v, err := NewMetadataRepository(s.db).Get(ctx, keyTokenSaved)
	if err != nil || v == nil {
		return time.Time{}, false, err
	}
	at, err = time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// MemoryTokenStore is a process-local TokenStore.
type MemoryTokenStore struct {
	mu      sync.Mutex
	token   string
	savedAt time.Time
}

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.savedAt = time.Now()
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenStore) Clear(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.savedAt = time.Time{}
	m.mu.Unlock()
	return nil
}

// SavedAt is unknown for a token passed to NewMemoryTokenStore.
func (m *MemoryTokenStore) SavedAt(context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" || m.savedAt.IsZero() {
		return time.Time{}, false, nil
	}
	return m.savedAt, true, nil
}
