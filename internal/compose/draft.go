// Package compose accumulates per-line input for an in-progress poem
// submission and decides when the draft is complete enough to submit.
package compose

import (
	"github.com/chizurashi/chizurashi-server/internal/domain"
	"github.com/chizurashi/chizurashi-server/internal/normalize"
)

// MaxSlots is the number of line slots a draft carries. Slots 4 and 5 are
// meaningful only for tanka; a haiku draft may hold stray text there without
// affecting submittability.
const MaxSlots = 5

// Options controls draft behavior after a successful submission.
type Options struct {
	// RetainPositionAfterSubmit keeps the selected map position in the
	// draft across Reset, so a follow-up poem can land at the same spot
	// without re-clicking the map. When false, Reset clears the position
	// along with the lines.
	RetainPositionAfterSubmit bool
}

// DefaultOptions returns the stock draft policy: the map position survives
// a successful submit.
func DefaultOptions() Options {
	return Options{RetainPositionAfterSubmit: true}
}

// Draft is the ephemeral state of one in-progress submission: the chosen
// form, the pending line slots, the pending author override, and the
// pending map position. Not safe for concurrent use; each composition flow
// owns exactly one draft.
type Draft struct {
	kind     domain.Kind
	lines    [MaxSlots]string
	author   string
	position *domain.Position
	opts     Options
}

// NewDraft returns an empty draft for the given form.
func NewDraft(kind domain.Kind, opts Options) *Draft {
	return &Draft{kind: kind, opts: opts}
}

// Kind returns the currently selected poem form.
func (d *Draft) Kind() domain.Kind {
	return d.kind
}

// SetKind switches the draft to another form. Line slots are kept: a user
// flipping haiku to tanka should not lose lines 1-3.
func (d *Draft) SetKind(kind domain.Kind) {
	d.kind = kind
}

// SetLine stores raw text for slot 1..MaxSlots. No validation happens at
// input time; incomplete or blank slots simply keep CanSubmit false.
// Out-of-range slots are ignored.
func (d *Draft) SetLine(slot int, value string) {
	if slot < 1 || slot > MaxSlots {
		return
	}
	d.lines[slot-1] = value
}

// Line returns the trimmed, normalized value of slot 1..MaxSlots.
func (d *Draft) Line(slot int) string {
	if slot < 1 || slot > MaxSlots {
		return ""
	}
	return normalize.Line(d.lines[slot-1])
}

// SetAuthor stores the pending display-signature override.
func (d *Draft) SetAuthor(author string) {
	d.author = author
}

// Author returns the normalized pending signature override, which may be
// empty when the submitter wants the fallback chain applied.
func (d *Draft) Author() string {
	return normalize.Signature(d.author)
}

// SetPosition records the map coordinate the poem will attach to.
func (d *Draft) SetPosition(pos domain.Position) {
	p := pos
	d.position = &p
}

// Position returns the pending coordinate, or nil when none is selected.
func (d *Draft) Position() *domain.Position {
	return d.position
}

// CanSubmit reports whether the draft is complete: a position is selected,
// lines 1-3 are non-empty after trimming, and for tanka lines 4-5 as well.
func (d *Draft) CanSubmit() bool {
	if d.position == nil || !d.position.Valid() {
		return false
	}
	for slot := 1; slot <= d.kind.LineCount(); slot++ {
		if d.Line(slot) == "" {
			return false
		}
	}
	return true
}

// BuildText joins the trimmed values of the form's line slots, in slot
// order, into the canonical newline-joined poem text. Callers must check
// CanSubmit first; BuildText does not re-validate.
func (d *Draft) BuildText() string {
	lines := make([]string, d.kind.LineCount())
	for i := range lines {
		lines[i] = d.Line(i + 1)
	}
	return domain.JoinLines(lines)
}

// Reset clears the line slots after a successful submission. The author
// signature always survives (the same person keeps writing); the position
// survives only under the retain policy.
func (d *Draft) Reset() {
	d.lines = [MaxSlots]string{}
	if !d.opts.RetainPositionAfterSubmit {
		d.position = nil
	}
}

// Discard abandons the draft entirely: lines, author, and position.
func (d *Draft) Discard() {
	d.lines = [MaxSlots]string{}
	d.author = ""
	d.position = nil
}
