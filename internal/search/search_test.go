package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/domain"
)

func newTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	idx, err := NewSearchIndex(Options{
		DataPath: t.TempDir(),
		Logger:   slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func seedPoems(t *testing.T, idx *SearchIndex) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	poems := []*domain.Poem{
		{
			ID:        "poem-1",
			Kind:      domain.KindHaiku,
			Text:      "古池や\n蛙飛びこむ\n水の音",
			Author:    "芭蕉",
			OwnerID:   "U1",
			Position:  domain.Position{Lat: 35.0, Lon: 135.0},
			CreatedAt: base,
		},
		{
			ID:        "poem-2",
			Kind:      domain.KindHaiku,
			Text:      "柿くへば\n鐘が鳴るなり\n法隆寺",
			Author:    "子規",
			OwnerID:   "U2",
			Position:  domain.Position{Lat: 34.6, Lon: 135.7},
			CreatedAt: base.Add(time.Minute),
		},
		{
			ID:        "poem-3",
			Kind:      domain.KindTanka,
			Text:      "東の\n野に炎の\n立つ見えて\nかへり見すれば\n月傾きぬ",
			Author:    "人麻呂",
			OwnerID:   "U1",
			Position:  domain.Position{Lat: 34.5, Lon: 135.8},
			CreatedAt: base.Add(2 * time.Minute),
		},
	}
	if err := idx.IndexPoems(poems); err != nil {
		t.Fatalf("index poems: %v", err)
	}
}

func TestIndexAndCount(t *testing.T) {
	idx := newTestIndex(t)
	seedPoems(t, idx)

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d documents", count)
	}
}

func TestSearchByText(t *testing.T) {
	idx := newTestIndex(t)
	seedPoems(t, idx)

	params := DefaultSearchParams()
	params.Query = "古池"
	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total == 0 {
		t.Fatal("expected a hit for 古池")
	}
	if result.Hits[0].ID != "poem-1" {
		t.Errorf("top hit: got %s", result.Hits[0].ID)
	}
	if result.Hits[0].Kind != "haiku" {
		t.Errorf("kind: got %s", result.Hits[0].Kind)
	}
}

func TestSearchByAuthor(t *testing.T) {
	idx := newTestIndex(t)
	seedPoems(t, idx)

	params := DefaultSearchParams()
	params.Query = "子規"
	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total == 0 {
		t.Fatal("expected a hit for author 子規")
	}
	if result.Hits[0].ID != "poem-2" {
		t.Errorf("top hit: got %s", result.Hits[0].ID)
	}
}

func TestSearchKindFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedPoems(t, idx)

	params := DefaultSearchParams()
	params.Kind = "tanka"
	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("got %d hits, want 1", result.Total)
	}
	if result.Hits[0].ID != "poem-3" {
		t.Errorf("got %s", result.Hits[0].ID)
	}
}

func TestSearchOwnerFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedPoems(t, idx)

	params := DefaultSearchParams()
	params.Owner = "U1"
	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("got %d hits, want 2", result.Total)
	}
}

func TestDeletePoemFromIndex(t *testing.T) {
	idx := newTestIndex(t)
	seedPoems(t, idx)

	if err := idx.DeletePoem("poem-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d documents after delete", count)
	}
}

func TestRebuildEmptiesIndex(t *testing.T) {
	idx := newTestIndex(t)
	seedPoems(t, idx)

	if err := idx.Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("got %d documents after rebuild", count)
	}
}

func TestReopenExistingIndex(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	idx, err := NewSearchIndex(Options{DataPath: dir, Logger: logger})
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	seedPoems(t, idx)
	idx.Close()

	reopened, err := NewSearchIndex(Options{DataPath: dir, Logger: logger})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d documents after reopen", count)
	}
}
