package compose

import (
	"strings"
	"testing"

	"github.com/chizurashi/chizurashi-server/internal/domain"
)

func TestCanSubmit(t *testing.T) {
	pos := domain.Position{Lat: 35.0, Lon: 135.0}

	tests := []struct {
		name    string
		kind    domain.Kind
		lines   []string
		withPos bool
		want    bool
	}{
		{"haiku complete", domain.KindHaiku, []string{"古池や", "蛙飛びこむ", "水の音"}, true, true},
		{"haiku ignores slots 4-5", domain.KindHaiku, []string{"古池や", "蛙飛びこむ", "水の音", "stray", ""}, true, true},
		{"haiku missing line", domain.KindHaiku, []string{"古池や", "", "水の音"}, true, false},
		{"haiku whitespace line", domain.KindHaiku, []string{"古池や", "　 ", "水の音"}, true, false},
		{"haiku no position", domain.KindHaiku, []string{"古池や", "蛙飛びこむ", "水の音"}, false, false},
		{"tanka complete", domain.KindTanka, []string{"東の", "野に炎の", "立つ見えて", "かへり見すれば", "月傾きぬ"}, true, true},
		{"tanka missing line 5", domain.KindTanka, []string{"東の", "野に炎の", "立つ見えて", "かへり見すれば", ""}, true, false},
		{"empty draft", domain.KindHaiku, nil, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft(tt.kind, DefaultOptions())
			for i, line := range tt.lines {
				d.SetLine(i+1, line)
			}
			if tt.withPos {
				d.SetPosition(pos)
			}
			if got := d.CanSubmit(); got != tt.want {
				t.Errorf("CanSubmit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildTextRoundTrip(t *testing.T) {
	t.Run("haiku", func(t *testing.T) {
		d := NewDraft(domain.KindHaiku, DefaultOptions())
		d.SetLine(1, "  古池や ")
		d.SetLine(2, "蛙飛びこむ")
		d.SetLine(3, "水の音　") // trailing ideographic space
		d.SetPosition(domain.Position{Lat: 35, Lon: 135})

		text := d.BuildText()
		lines := strings.Split(text, "\n")
		want := []string{"古池や", "蛙飛びこむ", "水の音"}
		if len(lines) != 3 {
			t.Fatalf("got %d lines", len(lines))
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d: got %q, want %q", i+1, lines[i], want[i])
			}
		}
	})

	t.Run("tanka", func(t *testing.T) {
		d := NewDraft(domain.KindTanka, DefaultOptions())
		in := []string{"東の", "野に炎の", "立つ見えて", "かへり見すれば", "月傾きぬ"}
		for i, line := range in {
			d.SetLine(i+1, line)
		}
		text := d.BuildText()
		if got := strings.Split(text, "\n"); len(got) != 5 {
			t.Fatalf("got %d lines", len(got))
		}
		if text != strings.Join(in, "\n") {
			t.Errorf("got %q", text)
		}
	})
}

func TestReset(t *testing.T) {
	fill := func(opts Options) *Draft {
		d := NewDraft(domain.KindHaiku, opts)
		d.SetLine(1, "古池や")
		d.SetLine(2, "蛙飛びこむ")
		d.SetLine(3, "水の音")
		d.SetAuthor("芭蕉")
		d.SetPosition(domain.Position{Lat: 35, Lon: 135})
		return d
	}

	t.Run("retain position", func(t *testing.T) {
		d := fill(Options{RetainPositionAfterSubmit: true})
		d.Reset()
		if d.Line(1) != "" || d.Line(2) != "" || d.Line(3) != "" {
			t.Error("lines should be cleared")
		}
		if d.Author() != "芭蕉" {
			t.Error("author should survive reset")
		}
		if d.Position() == nil {
			t.Error("position should survive under retain policy")
		}
	})

	t.Run("clear position", func(t *testing.T) {
		d := fill(Options{RetainPositionAfterSubmit: false})
		d.Reset()
		if d.Position() != nil {
			t.Error("position should be cleared under clear policy")
		}
	})

	t.Run("discard", func(t *testing.T) {
		d := fill(DefaultOptions())
		d.Discard()
		if d.Line(1) != "" || d.Author() != "" || d.Position() != nil {
			t.Error("discard should clear everything")
		}
	})
}

func TestSlotBounds(t *testing.T) {
	d := NewDraft(domain.KindHaiku, DefaultOptions())
	d.SetLine(0, "x")
	d.SetLine(6, "y")
	if d.Line(0) != "" || d.Line(6) != "" {
		t.Error("out-of-range slots must be ignored")
	}
}

func TestSetKindKeepsLines(t *testing.T) {
	d := NewDraft(domain.KindHaiku, DefaultOptions())
	d.SetLine(1, "古池や")
	d.SetKind(domain.KindTanka)
	if d.Line(1) != "古池や" {
		t.Error("switching form should keep line slots")
	}
	if d.Kind() != domain.KindTanka {
		t.Error("kind should change")
	}
}
