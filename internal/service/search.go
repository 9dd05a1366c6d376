package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chizurashi/chizurashi-server/internal/search"
	"github.com/chizurashi/chizurashi-server/internal/store"
)

// SearchService bridges the search index with the poem store, handling
// query execution and full reindexing.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search executes a full-text search over poems.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// ReindexAll rebuilds the index from the store. Used at startup when the
// index is empty or stale, and on demand after mapping changes.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	poems, err := s.store.ListPoems(ctx)
	if err != nil {
		return 0, fmt.Errorf("list poems: %w", err)
	}

	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	if err := s.index.IndexPoems(poems); err != nil {
		return 0, fmt.Errorf("index poems: %w", err)
	}

	s.logger.Info("search reindex complete", "poems", len(poems))
	return len(poems), nil
}

// EnsureFresh reindexes when the index document count does not match the
// store. Cheap to call at every startup.
func (s *SearchService) EnsureFresh(ctx context.Context) error {
	stored, err := s.store.CountPoems(ctx)
	if err != nil {
		return fmt.Errorf("count poems: %w", err)
	}

	indexed, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}

	if uint64(stored) == indexed {
		return nil
	}

	s.logger.Info("search index out of sync, reindexing",
		"stored", stored,
		"indexed", indexed,
	)
	_, err = s.ReindexAll(ctx)
	return err
}
