package models

import (
	"reflect"
	"testing"
)

func TestMatchSetAlign(t *testing.T) {
	inputs := []InputCell{{Cell: "B2"}, {Cell: "B3"}}
	set := NewMatchSet([]MatchResult{
		{Cell: "Z1", Match: true},
		{Cell: "B2", Match: true, Reason: "ok"},
	})

	got := set.Align(inputs)
	if len(got) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(got))
	}
	if got[0].Cell != "B2" || !got[0].Match {
		t.Errorf("Unexpected first result: %+v", got[0])
	}
	if got[1].Cell != "B3" || got[1].Match || got[1].Reason != "unverified: no result returned for cell" {
		t.Errorf("Unexpected placeholder: %+v", got[1])
	}
	if missing := set.Missing(inputs); !reflect.DeepEqual(missing, []string{"B3"}) {
		t.Errorf("Missing = %v", missing)
	}
}

func TestMatchResultLocated(t *testing.T) {
	span := "1km"
	empty := ""
	tests := []struct {
		r    MatchResult
		want bool
	}{
		{MatchResult{Match: true, MatchedText: &span}, true},
		{MatchResult{Match: true, MatchedText: &empty}, false},
		{MatchResult{Match: true}, false},
		{MatchResult{Match: false, MatchedText: &span}, false},
	}
	for i, tt := range tests {
		if got := tt.r.Located(); got != tt.want {
			t.Errorf("case %d: Located() = %v, want %v", i, got, tt.want)
		}
	}
}

func TestPolygonBoundsAndCenter(t *testing.T) {
	p := Polygon{1, 2, 4, 1.5, 4.5, 3, 0.5, 3.5}
	want := Rect{X0: 0.5, Y0: 1.5, X1: 4.5, Y1: 3.5}
	if got := p.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
	x, y := p.Center()
	if x != 2.5 || y != 2.5 {
		t.Errorf("Center() = (%v, %v), want (2.5, 2.5)", x, y)
	}
}

func TestInputCellHint(t *testing.T) {
	tests := []struct {
		meta [2]string
		want string
	}{
		{[2]string{"長さ", "m"}, "長さ, m"},
		{[2]string{"", "m"}, "m"},
		{[2]string{"長さ", ""}, "長さ"},
		{[2]string{}, ""},
	}
	for _, tt := range tests {
		if got := (InputCell{Metadata: tt.meta}).Hint(); got != tt.want {
			t.Errorf("Hint(%q) = %q, want %q", tt.meta, got, tt.want)
		}
	}
}

func TestSourcePage(t *testing.T) {
	var p SourcePage
	if p.Located() || p.String() != "-" {
		t.Errorf("zero SourcePage should be unlocated")
	}
	p = SourcePage{Stem: "road", Page: 2}
	if !p.Located() || p.String() != "road p.2" {
		t.Errorf("Unexpected %v", p)
	}
}

func TestPrintAreaContains(t *testing.T) {
	a := PrintArea{R1: 1, C1: 1, R2: 2, C2: 3}
	if !a.Contains(3, 2) || a.Contains(4, 2) || a.Contains(1, 3) {
		t.Errorf("Contains misbehaves for %+v", a)
	}
}

func TestLayoutPageInInches(t *testing.T) {
	for unit, want := range map[string]bool{"": true, "inch": true, "pixel": false} {
		if got := (LayoutPage{Unit: unit}).InInches(); got != want {
			t.Errorf("InInches(%q) = %v, want %v", unit, got, want)
		}
	}
}
