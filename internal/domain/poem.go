package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Kind identifies the poem form.
type Kind string

const (
	// KindHaiku is the 3-line form (5-7-5 syllable convention, not enforced).
	KindHaiku Kind = "haiku"
	// KindTanka is the 5-line form (5-7-5-7-7 syllable convention, not enforced).
	KindTanka Kind = "tanka"
)

// LineCount returns the number of lines the form requires.
func (k Kind) LineCount() int {
	if k == KindTanka {
		return 5
	}
	return 3
}

// IsValid reports whether k is a known poem form.
func (k Kind) IsValid() bool {
	return k == KindHaiku || k == KindTanka
}

// Coordinate bounds for poem positions.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Position is a map coordinate a poem is attached to.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is within bounds.
func (p Position) Valid() bool {
	return p.Lat >= MinLatitude && p.Lat <= MaxLatitude &&
		p.Lon >= MinLongitude && p.Lon <= MaxLongitude
}

// Poem is a short geotagged poem placed on the map.
//
// Text is the newline-joined ordered sequence of lines: exactly 3 for haiku,
// 5 for tanka. Author is the free-text display signature chosen at submit
// time; OwnerID is the identity handle that created the record and is the
// sole basis for mutation rights. OwnerID is empty only in identity-less
// deployments and never changes after creation.
type Poem struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	Text          string    `json:"text"`
	Position      Position  `json:"position"`
	Author        string    `json:"author"`
	OwnerID       string    `json:"owner_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AppreciatedBy []string  `json:"appreciated_by"`
}

// Lines splits Text into its ordered lines.
func (p *Poem) Lines() []string {
	if p.Text == "" {
		return nil
	}
	return strings.Split(p.Text, "\n")
}

// Validate checks the poem record invariants: form-specific line count,
// non-empty trimmed lines, coordinate bounds, and uniqueness of
// appreciation handles.
func (p *Poem) Validate() error {
	if !p.Kind.IsValid() {
		return fmt.Errorf("unknown poem kind %q", p.Kind)
	}

	lines := p.Lines()
	if len(lines) != p.Kind.LineCount() {
		return fmt.Errorf("%s requires exactly %d lines, got %d", p.Kind, p.Kind.LineCount(), len(lines))
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("line %d is empty", i+1)
		}
	}

	if !p.Position.Valid() {
		return fmt.Errorf("position (%v, %v) out of bounds", p.Position.Lat, p.Position.Lon)
	}

	seen := make(map[string]bool, len(p.AppreciatedBy))
	for _, handle := range p.AppreciatedBy {
		if seen[handle] {
			return fmt.Errorf("duplicate appreciation handle %q", handle)
		}
		seen[handle] = true
	}

	return nil
}

// IsAppreciatedBy reports whether the given identity handle is in the
// appreciation set.
func (p *Poem) IsAppreciatedBy(handle string) bool {
	return handle != "" && slices.Contains(p.AppreciatedBy, handle)
}

// AppreciationCount returns the number of identities that marked the poem.
func (p *Poem) AppreciationCount() int {
	return len(p.AppreciatedBy)
}

// JoinLines builds poem text from ordered lines. Counterpart of Lines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
