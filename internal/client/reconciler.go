package client

import (
	"sync"

	"github.com/chizurashi/chizurashi-server/internal/domain"
)

// PoemList is the client's single source of truth for displayed poems.
// It only ever changes from confirmed store results: callers apply gateway
// responses here, never local predictions.
type PoemList struct {
	mu    sync.RWMutex
	poems []*domain.Poem
}

// NewPoemList creates an empty poem list.
func NewPoemList() *PoemList {
	return &PoemList{}
}

// ReplaceAll swaps the entire list for a fresh store snapshot.
func (l *PoemList) ReplaceAll(poems []*domain.Poem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.poems = make([]*domain.Poem, len(poems))
	copy(l.poems, poems)
}

// UpsertFront updates the poem in place if present, otherwise inserts it
// at the front. New submissions land at the top of the list.
func (l *PoemList) UpsertFront(poem *domain.Poem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.poems {
		if p.ID == poem.ID {
			l.poems[i] = poem
			return
		}
	}
	l.poems = append([]*domain.Poem{poem}, l.poems...)
}

// UpsertByID updates the poem in place without reordering and reports
// whether it was present. Confirmed edits to poems that have since left
// the list are dropped; the next refresh settles it.
func (l *PoemList) UpsertByID(poem *domain.Poem) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.poems {
		if p.ID == poem.ID {
			l.poems[i] = poem
			return true
		}
	}
	return false
}

// RemoveByID removes the poem and reports whether it was present.
func (l *PoemList) RemoveByID(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.poems {
		if p.ID == id {
			l.poems = append(l.poems[:i], l.poems[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the poem with the given ID, if present.
func (l *PoemList) Get(id string) (*domain.Poem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.poems {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Poems returns a snapshot of the current list.
func (l *PoemList) Poems() []*domain.Poem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := make([]*domain.Poem, len(l.poems))
	copy(snapshot, l.poems)
	return snapshot
}

// Len returns the number of poems in the list.
func (l *PoemList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.poems)
}
