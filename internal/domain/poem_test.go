package domain

import (
	"strings"
	"testing"
)

func makeValidHaiku() *Poem {
	return &Poem{
		ID:            "poem-1",
		Kind:          KindHaiku,
		Text:          "古池や\n蛙飛びこむ\n水の音",
		Position:      Position{Lat: 35.0, Lon: 135.0},
		Author:        "芭蕉",
		OwnerID:       "U1",
		AppreciatedBy: []string{},
	}
}

func TestKindLineCount(t *testing.T) {
	if got := KindHaiku.LineCount(); got != 3 {
		t.Errorf("haiku line count: got %d", got)
	}
	if got := KindTanka.LineCount(); got != 5 {
		t.Errorf("tanka line count: got %d", got)
	}
}

func TestPoemValidate(t *testing.T) {
	t.Run("valid haiku", func(t *testing.T) {
		if err := makeValidHaiku().Validate(); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("valid tanka", func(t *testing.T) {
		p := makeValidHaiku()
		p.Kind = KindTanka
		p.Text = "東の\n野に炎の\n立つ見えて\nかへり見すれば\n月傾きぬ"
		if err := p.Validate(); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("wrong line count", func(t *testing.T) {
		p := makeValidHaiku()
		p.Text = "古池や\n蛙飛びこむ"
		if err := p.Validate(); err == nil {
			t.Error("expected error for 2-line haiku")
		}

		p.Kind = KindTanka
		p.Text = "a\nb\nc"
		if err := p.Validate(); err == nil {
			t.Error("expected error for 3-line tanka")
		}
	})

	t.Run("blank line", func(t *testing.T) {
		p := makeValidHaiku()
		p.Text = "古池や\n   \n水の音"
		err := p.Validate()
		if err == nil {
			t.Fatal("expected error for blank middle line")
		}
		if !strings.Contains(err.Error(), "line 2") {
			t.Errorf("expected line number in error, got %v", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		p := makeValidHaiku()
		p.Kind = "senryu"
		if err := p.Validate(); err == nil {
			t.Error("expected error for unknown kind")
		}
	})

	t.Run("position bounds", func(t *testing.T) {
		cases := []Position{
			{Lat: 90.1, Lon: 0},
			{Lat: -90.1, Lon: 0},
			{Lat: 0, Lon: 180.1},
			{Lat: 0, Lon: -180.1},
		}
		for _, pos := range cases {
			p := makeValidHaiku()
			p.Position = pos
			if err := p.Validate(); err == nil {
				t.Errorf("expected error for position %+v", pos)
			}
		}

		// Exact edges are valid.
		p := makeValidHaiku()
		p.Position = Position{Lat: 90, Lon: -180}
		if err := p.Validate(); err != nil {
			t.Errorf("boundary position should be valid, got %v", err)
		}
	})

	t.Run("duplicate appreciation handle", func(t *testing.T) {
		p := makeValidHaiku()
		p.AppreciatedBy = []string{"U2", "U3", "U2"}
		if err := p.Validate(); err == nil {
			t.Error("expected error for duplicate handle")
		}
	})
}

func TestPoemLines(t *testing.T) {
	p := makeValidHaiku()
	lines := p.Lines()
	want := []string{"古池や", "蛙飛びこむ", "水の音"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i+1, lines[i], want[i])
		}
	}

	// Round trip.
	if JoinLines(lines) != p.Text {
		t.Error("JoinLines(Lines()) should reproduce Text")
	}

	empty := &Poem{}
	if empty.Lines() != nil {
		t.Error("empty text should yield nil lines")
	}
}

func TestIsAppreciatedBy(t *testing.T) {
	p := makeValidHaiku()
	p.AppreciatedBy = []string{"U2"}

	if !p.IsAppreciatedBy("U2") {
		t.Error("U2 should be in the set")
	}
	if p.IsAppreciatedBy("U3") {
		t.Error("U3 should not be in the set")
	}
	if p.IsAppreciatedBy("") {
		t.Error("empty handle is never appreciated")
	}
	if p.AppreciationCount() != 1 {
		t.Errorf("count: got %d", p.AppreciationCount())
	}
}
