package table

import "testing"

func TestWidthsHandlesRaggedRows(t *testing.T) {
	widths := Widths([][]string{{"a", "bbb"}, {"cccc"}, {"", "d", "ee"}})
	want := []int{4, 3, 2}
	if len(widths) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(widths))
	}
	for i := range want {
		if widths[i] != want[i] {
			t.Fatalf("column %d: expected %d, got %d", i, want[i], widths[i])
		}
	}
}

func TestFormatAlignsColumns(t *testing.T) {
	out := Format([][]string{{"push", "1"}, {"pull", "10"}}, []Alignment{AlignLeft, AlignRight})
	if out[0] != "push   1" || out[1] != "pull  10" {
		t.Fatalf("unexpected rows %q", out)
	}
}

func TestPad(t *testing.T) {
	if got := Pad("ab", 4); got != "ab  " {
		t.Fatalf("expected padded value, got %q", got)
	}
	if got := Pad("abcdef", 2); got != "abcdef" {
		t.Fatalf("expected untouched value, got %q", got)
	}
}
