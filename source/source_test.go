package source

import "testing"

func TestRangeEnd(t *testing.T) {
	r := Range{Loc: Loc{Start: 10}, Len: 5}
	if r.End() != 15 {
		t.Fatalf("expected End() == 15, got %d", r.End())
	}
}

func TestTextForRange(t *testing.T) {
	src := &Source{Contents: "hello world"}
	got := src.TextForRange(Range{Loc: Loc{Start: 6}, Len: 5})
	if got != "world" {
		t.Fatalf("expected %q, got %q", "world", got)
	}
}

func TestLineColumnTrackerASCII(t *testing.T) {
	src := &Source{Contents: "abc\ndef\nghi"}
	tracker := MakeLineColumnTracker(src)

	tests := []struct {
		offset int32
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
	}
	for _, tt := range tests {
		p := tracker.Position(tt.offset)
		if p.Line != tt.line || p.Column != tt.column {
			t.Errorf("Position(%d) = {%d,%d}, want {%d,%d}", tt.offset, p.Line, p.Column, tt.line, tt.column)
		}
	}
}

func TestLineColumnTrackerCRLFAndCR(t *testing.T) {
	src := &Source{Contents: "a\r\nb\rc"}
	tracker := MakeLineColumnTracker(src)

	// "a" "\r\n" "b" "\r" "c"
	//  0   1 2   3   4   5
	if p := tracker.Position(3); p.Line != 2 || p.Column != 1 {
		t.Errorf("Position(3) = {%d,%d}, want {2,1}", p.Line, p.Column)
	}
	if p := tracker.Position(5); p.Line != 3 || p.Column != 1 {
		t.Errorf("Position(5) = {%d,%d}, want {3,1}", p.Line, p.Column)
	}
}

// A 4-byte UTF-8 sequence (outside the BMP) counts as two UTF-16 columns,
// since it decodes to a UTF-16 surrogate pair.
func TestLineColumnTrackerSupplementaryPlane(t *testing.T) {
	src := &Source{Contents: "\U0001F600x"} // U+1F600 (grinning face) then 'x'
	tracker := MakeLineColumnTracker(src)

	p := tracker.Position(4) // byte offset right after the 4-byte emoji
	if p.Column != 3 {
		t.Fatalf("expected column 3 (1 + 2 UTF-16 units), got %d", p.Column)
	}
}

// Requesting offsets out of increasing order must still resolve correctly
// even though the tracker caches its last resolved point.
func TestLineColumnTrackerOutOfOrder(t *testing.T) {
	src := &Source{Contents: "abc\ndef\nghi"}
	tracker := MakeLineColumnTracker(src)

	_ = tracker.Position(8) // forward first
	p := tracker.Position(0) // then backward -- must reset, not go negative
	if p.Line != 1 || p.Column != 1 {
		t.Fatalf("Position(0) after rewinding = {%d,%d}, want {1,1}", p.Line, p.Column)
	}
}
