// Package store defines the persistence interface for the chizurashi server.
package store

import (
	"context"

	"github.com/chizurashi/chizurashi-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Poems
	CreatePoem(ctx context.Context, poem *domain.Poem) error
	GetPoem(ctx context.Context, id string) (*domain.Poem, error)
	UpdatePoemText(ctx context.Context, id, text string) (*domain.Poem, error)
	ReplaceAppreciations(ctx context.Context, id string, handles []string) (*domain.Poem, error)
	DeletePoem(ctx context.Context, id string) error
	ListPoems(ctx context.Context) ([]*domain.Poem, error)
	CountPoems(ctx context.Context) (int, error)
}

// SearchIndexer receives poem mutations so a search index can stay in sync
// with the store. Implementations must tolerate being called from the
// store's write path; failures are logged, never propagated to the writer.
type SearchIndexer interface {
	IndexPoem(poem *domain.Poem) error
	DeletePoem(id string) error
}

// NoopSearchIndexer discards all indexing calls. Used until a real index
// is wired in.
type NoopSearchIndexer struct{}

// NewNoopSearchIndexer returns an indexer that does nothing.
func NewNoopSearchIndexer() *NoopSearchIndexer { return &NoopSearchIndexer{} }

// IndexPoem implements SearchIndexer.
func (*NoopSearchIndexer) IndexPoem(*domain.Poem) error { return nil }

// DeletePoem implements SearchIndexer.
func (*NoopSearchIndexer) DeletePoem(string) error { return nil }
