package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/domain"
	"github.com/chizurashi/chizurashi-server/internal/store"
)

func testPoem(id string, createdAt time.Time) *domain.Poem {
	return &domain.Poem{
		ID:            id,
		Kind:          domain.KindHaiku,
		Text:          "古池や\n蛙飛びこむ\n水の音",
		Position:      domain.Position{Lat: 35.0, Lon: 135.0},
		Author:        "芭蕉",
		OwnerID:       "U1",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		AppreciatedBy: []string{},
	}
}

func TestCreateAndGetPoem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	p := testPoem("poem-1", now)
	if err := s.CreatePoem(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetPoem(ctx, "poem-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Kind != domain.KindHaiku {
		t.Errorf("kind: got %s", got.Kind)
	}
	if got.Text != p.Text {
		t.Errorf("text: got %q", got.Text)
	}
	if got.Position.Lat != 35.0 || got.Position.Lon != 135.0 {
		t.Errorf("position: got %+v", got.Position)
	}
	if got.OwnerID != "U1" {
		t.Errorf("owner: got %q", got.OwnerID)
	}
	if got.AppreciatedBy == nil || len(got.AppreciatedBy) != 0 {
		t.Errorf("appreciated_by should be empty non-nil, got %v", got.AppreciatedBy)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("created_at: got %v, want %v", got.CreatedAt, now)
	}
}

func TestCreatePoemDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPoem("poem-1", time.Now())
	if err := s.CreatePoem(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreatePoem(ctx, p); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreatePoemNullOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPoem("poem-1", time.Now())
	p.OwnerID = ""
	if err := s.CreatePoem(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetPoem(ctx, "poem-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.OwnerID != "" {
		t.Errorf("owner should round-trip empty, got %q", got.OwnerID)
	}
}

func TestGetPoemNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPoem(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePoemText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPoem("poem-1", time.Now().Add(-time.Hour))
	if err := s.CreatePoem(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	newText := "閑さや\n岩にしみ入る\n蝉の声"
	got, err := s.UpdatePoemText(ctx, "poem-1", newText)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Text != newText {
		t.Errorf("text: got %q", got.Text)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("updated_at should move forward")
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Error("created_at must never change")
	}

	_, err = s.UpdatePoemText(ctx, "missing", newText)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceAppreciations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPoem("poem-1", time.Now())
	if err := s.CreatePoem(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.ReplaceAppreciations(ctx, "poem-1", []string{"U2", "U3"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !slices.Equal(got.AppreciatedBy, []string{"U2", "U3"}) {
		t.Errorf("got %v", got.AppreciatedBy)
	}

	// Replacing again fully swaps the set.
	got, err = s.ReplaceAppreciations(ctx, "poem-1", []string{"U3"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !slices.Equal(got.AppreciatedBy, []string{"U3"}) {
		t.Errorf("got %v", got.AppreciatedBy)
	}

	// Down to empty.
	got, err = s.ReplaceAppreciations(ctx, "poem-1", nil)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(got.AppreciatedBy) != 0 {
		t.Errorf("got %v", got.AppreciatedBy)
	}

	// Duplicates in the input collapse to one row.
	got, err = s.ReplaceAppreciations(ctx, "poem-1", []string{"U2", "U2"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !slices.Equal(got.AppreciatedBy, []string{"U2"}) {
		t.Errorf("got %v", got.AppreciatedBy)
	}

	_, err = s.ReplaceAppreciations(ctx, "missing", []string{"U2"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePoem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPoem("poem-1", time.Now())
	if err := s.CreatePoem(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.ReplaceAppreciations(ctx, "poem-1", []string{"U2"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if err := s.DeletePoem(ctx, "poem-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetPoem(ctx, "poem-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Appreciation rows cascade away with the poem.
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM poem_appreciations WHERE poem_id = 'poem-1'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected cascade delete, %d rows remain", count)
	}

	// A second delete of the same id is a failure, not a no-op.
	if err := s.DeletePoem(ctx, "poem-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPoemsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"poem-old", "poem-mid", "poem-new"} {
		p := testPoem(id, base.Add(time.Duration(i)*time.Minute))
		if err := s.CreatePoem(ctx, p); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if _, err := s.ReplaceAppreciations(ctx, "poem-mid", []string{"U2"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	poems, err := s.ListPoems(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(poems) != 3 {
		t.Fatalf("got %d poems", len(poems))
	}

	wantOrder := []string{"poem-new", "poem-mid", "poem-old"}
	for i, want := range wantOrder {
		if poems[i].ID != want {
			t.Errorf("index %d: got %s, want %s", i, poems[i].ID, want)
		}
	}

	if !slices.Equal(poems[1].AppreciatedBy, []string{"U2"}) {
		t.Errorf("poem-mid appreciations: got %v", poems[1].AppreciatedBy)
	}
	if poems[0].AppreciatedBy == nil {
		t.Error("empty appreciation sets must be non-nil")
	}

	count, err := s.CountPoems(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("count: got %d", count)
	}
}
