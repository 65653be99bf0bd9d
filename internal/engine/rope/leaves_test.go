package rope

import (
	"bytes"
	"encoding"
	"strings"
	"testing"
)

var (
	_ encoding.TextMarshaler   = Leaves(nil)
	_ encoding.TextUnmarshaler = (*Leaves)(nil)
)

func mustLeaves(t *testing.T, s string, capacity int) Leaves {
	t.Helper()
	leaves, err := LeavesFromString(s, capacity)
	if err != nil {
		t.Fatalf("LeavesFromString(%q, %d): %v", s, capacity, err)
	}
	t.Cleanup(leaves.Release)
	return leaves
}

func TestSeekLeaf(t *testing.T) {
	leaves := Leaves{
		mustBuffer(t, "foo\n", 8),
		mustBuffer(t, "bar\n", 8),
		mustBuffer(t, "baz", 8),
	}

	tests := []struct {
		offset    ByteMetric
		wantIdx   int
		wantLocal ByteMetric
	}{
		{0, 0, 0},
		{2, 0, 2},
		{4, 0, 4}, // boundary resolves to the earlier leaf
		{5, 1, 1},
		{8, 1, 4},
		{11, 2, 3},
	}
	for _, tt := range tests {
		idx, local := SeekLeaf(leaves, tt.offset)
		if idx != tt.wantIdx || local != tt.wantLocal {
			t.Errorf("SeekLeaf(%d) = (%d, %d), want (%d, %d)", tt.offset, idx, local, tt.wantIdx, tt.wantLocal)
		}
	}

	idx, local := SeekLeaf(leaves, RawLineMetric(2))
	if idx != 1 || local != 1 {
		t.Errorf("SeekLeaf(line 2) = (%d, %d), want (1, 1)", idx, local)
	}

	err := expectPanic[*OffsetError](t, func() { SeekLeaf(leaves, ByteMetric(12)) })
	if err.Measure != 11 {
		t.Errorf("Measure = %d, want 11", err.Measure)
	}
}

func TestSeekLeafEmpty(t *testing.T) {
	if idx, _ := SeekLeaf(Leaves(nil), CharMetric(0)); idx != -1 {
		t.Errorf("SeekLeaf on no leaves = %d, want -1", idx)
	}
	expectPanic[*OffsetError](t, func() { SeekLeaf(Leaves(nil), CharMetric(1)) })
}

func checkSplitLeaves[M Metric[M]](t *testing.T, leaves Leaves, offsets []M) {
	t.Helper()
	text := leaves.String()
	for _, offset := range offsets {
		left, right := SplitLeavesAt(leaves, offset)
		if left.String()+right.String() != text {
			t.Fatalf("%T(%d): %q + %q does not rebuild %q", offset, offset, left.String(), right.String(), text)
		}
		if Measure[M](left.Summarize()) != offset {
			t.Errorf("%T(%d): left measures %d", offset, offset, Measure[M](left.Summarize()))
		}
		if left.Summarize() != SummarizeString(left.String()) || right.Summarize() != SummarizeString(right.String()) {
			t.Errorf("%T(%d): piece summaries do not match their text", offset, offset)
		}
		for _, p := range append(left, right...) {
			if p.Slice.IsEmpty() {
				t.Errorf("%T(%d): empty piece", offset, offset)
			}
			p.Slice.AssertInvariants()
		}
	}
}

func TestSplitLeavesAt(t *testing.T) {
	text := strings.Repeat("foo 日本\r\nbar 🎉\n", 12)
	leaves := mustLeaves(t, text, 32)
	if len(leaves) < 3 {
		t.Fatalf("want several leaves, got %d", len(leaves))
	}

	checkSplitLeaves(t, leaves, byteBoundaries(text))
	checkSplitLeaves(t, leaves, charOffsets(text))
	checkSplitLeaves(t, leaves, utf16Offsets(text))
	checkSplitLeaves(t, leaves, lineOffsets(text))
}

func TestSplitLeavesAtEmpty(t *testing.T) {
	left, right := SplitLeavesAt(Leaves(nil), ByteMetric(0))
	if left != nil || right != nil {
		t.Errorf("got %v, %v, want nothing", left, right)
	}
}

func TestLeavesTextRoundTrip(t *testing.T) {
	for _, text := range []string{"", "lorem ipsum dolor", "lorem\nipsum", "lorem\r\nipsum", strings.Repeat("日本語\n", 500)} {
		var leaves Leaves
		if err := leaves.UnmarshalText([]byte(text)); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		got, err := leaves.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != text {
			t.Errorf("round trip = %q, want %q", got, text)
		}
		if leaves.Len() != len(text) {
			t.Errorf("Len() = %d, want %d", leaves.Len(), len(text))
		}
		leaves.Release()
	}
}

func TestLeavesUnmarshalInvalid(t *testing.T) {
	leaves := Leaves{mustBuffer(t, "keep", 8)}
	if err := leaves.UnmarshalText([]byte("bad \xff")); err == nil {
		t.Fatal("expected an error")
	}
	if leaves.String() != "keep" {
		t.Errorf("failed unmarshal replaced the leaves: %q", leaves.String())
	}
}

func TestLeavesWriteTo(t *testing.T) {
	b := mustBuffer(t, "hello world", 16)
	b.moveGap(5)
	leaves := Leaves{b, mustBuffer(t, "", 8), mustBuffer(t, "!", 8)}

	var buf bytes.Buffer
	n, err := leaves.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 12 || buf.String() != "hello world!" {
		t.Errorf("WriteTo = %d, %q", n, buf.String())
	}
}
