package rope

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGapBufferFromString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		capacity int
		debug    string
	}{
		{"empty", "", 4, `""`},
		{"hello", "Hello", 10, `"He~~~~~llo"`},
		{"full", "Hello", 5, `"Hello"`},
		{"keeps crlf together", "ab\r\ncd", 8, `"ab~~\r\ncd"`},
		{"moves back over crlf", "a\r\nb", 6, `"a~~\r\nb"`},
		{"char boundary", "日本語", 12, `"日~~~本語"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuffer(t, tt.input, tt.capacity)
			s := b.AsSlice()

			if got := s.GoString(); got != tt.debug {
				t.Errorf("GoString() = %s, want %s", got, tt.debug)
			}
			if b.String() != tt.input {
				t.Errorf("String() = %q, want %q", b.String(), tt.input)
			}
			if b.Summarize() != SummarizeString(tt.input) {
				t.Errorf("Summarize() = %s, want %s", b.Summarize(), SummarizeString(tt.input))
			}
			if b.Cap() != tt.capacity || b.Free() != tt.capacity-len(tt.input) {
				t.Errorf("Cap(), Free() = %d, %d", b.Cap(), b.Free())
			}
			s.AssertInvariants()
		})
	}
}

func TestGapBufferFromStringErrors(t *testing.T) {
	if _, err := GapBufferFromString("Hello", 4); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("too long: err = %v, want ErrCapacityExceeded", err)
	}

	_, err := GapBufferFromString("ab\xffc", 8)
	var utf8Err *InvalidUTF8Error
	if !errors.As(err, &utf8Err) || utf8Err.Position != 2 {
		t.Errorf("invalid UTF-8: err = %v, want position 2", err)
	}

	for _, capacity := range []int{0, -1, MaxSegmentLen + 1} {
		if _, err := NewGapBuffer(capacity); !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("NewGapBuffer(%d): err = %v, want ErrInvalidCapacity", capacity, err)
		}
	}
}

func TestGapBufferAsSliceDegenerate(t *testing.T) {
	b := mustBuffer(t, "Hello", 10)

	b.moveGap(0)
	s := b.AsSlice()
	if s.LenLeft() != 0 || s.LenRight() != 5 || s.LenGap() != 0 {
		t.Errorf("gap at start: %#v", s)
	}
	s.AssertInvariants()

	b.moveGap(5)
	s = b.AsSlice()
	if s.LenRight() != 0 || s.LenLeft() != 5 || s.LenGap() != 0 {
		t.Errorf("gap at end: %#v", s)
	}
	s.AssertInvariants()
}

func TestGapBufferEdits(t *testing.T) {
	// Mirrors the edits a rope makes on a single leaf.
	b, err := NewGapBuffer(32)
	if err != nil {
		t.Fatal(err)
	}
	model := ""

	insert := func(offset int, text string) {
		t.Helper()
		if err := b.Insert(offset, text); err != nil {
			t.Fatalf("Insert(%d, %q): %v", offset, text, err)
		}
		model = model[:offset] + text + model[offset:]
	}
	remove := func(start, end int) {
		t.Helper()
		b.Delete(start, end)
		model = model[:start] + model[end:]
	}
	check := func() {
		t.Helper()
		if b.String() != model {
			t.Fatalf("String() = %q, want %q", b.String(), model)
		}
		if b.Summarize() != SummarizeString(model) {
			t.Fatalf("Summarize() = %s, want %s", b.Summarize(), SummarizeString(model))
		}
		s := b.AsSlice()
		s.AssertInvariants()
		if s.Summarize() != b.Summarize() {
			t.Fatalf("slice summary = %s, want %s", s.Summarize(), b.Summarize())
		}
	}

	insert(0, "lorem dolor")
	check()
	insert(6, "ipsuma ")
	check()
	remove(11, 12)
	check()
	if model != "lorem ipsum dolor" {
		t.Fatalf("model = %q", model)
	}

	insert(0, "日本\r\n")
	check()
	remove(3, 6)
	check()
	insert(len(model), "🎉")
	check()
	remove(0, len(model))
	check()
}

func TestGapBufferInsertErrors(t *testing.T) {
	b := mustBuffer(t, "Hello", 8)

	if err := b.Insert(5, "abcd"); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("err = %v, want ErrCapacityExceeded", err)
	}
	var utf8Err *InvalidUTF8Error
	if err := b.Insert(5, "\xc3"); !errors.As(err, &utf8Err) {
		t.Errorf("err = %v, want *InvalidUTF8Error", err)
	}
	if b.String() != "Hello" {
		t.Errorf("failed inserts changed the buffer: %q", b.String())
	}

	if err := b.Insert(5, "abc"); err != nil {
		t.Fatalf("filling the gap: %v", err)
	}
	if b.Free() != 0 {
		t.Errorf("Free() = %d, want 0", b.Free())
	}
}

func TestGapBufferBoundaryViolations(t *testing.T) {
	b := mustBuffer(t, "日本語", 16)

	expectPanic[*CharBoundaryError](t, func() { _ = b.Insert(1, "x") })
	expectPanic[*CharBoundaryError](t, func() { b.Delete(0, 4) })
	expectPanic[*OffsetError](t, func() { b.Delete(3, 10) })
	expectPanic[*OffsetError](t, func() { b.Delete(6, 3) })

	if b.String() != "日本語" {
		t.Errorf("rejected edits changed the buffer: %q", b.String())
	}
}

func TestGapBufferRelease(t *testing.T) {
	pool := NewBufferPool()
	b, err := newGapBuffer(16, pool)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Insert(0, "hello"); err != nil {
		t.Fatal(err)
	}

	b.Release()
	if b.Cap() != 0 || b.Len() != 0 {
		t.Errorf("released buffer: Cap() = %d, Len() = %d", b.Cap(), b.Len())
	}
	b.Release() // second release is a no-op

	if got := len(pool.Get(16)); got != 16 {
		t.Errorf("pool returned %d bytes, want 16", got)
	}
}

func ExampleGapBufferFromString() {
	b, _ := GapBufferFromString("Hello", 10)
	fmt.Printf("%#v\n", b.AsSlice())
	fmt.Println(b.AsSlice().Len())
	// Output:
	// "He~~~~~llo"
	// 5
}

func ExampleSplitAt() {
	b, _ := GapBufferFromString("foo\nbar\r\nbaz", 20)
	s := b.AsSlice()

	left, right := SplitAt(s, RawLineMetric(1), s.Summarize())
	fmt.Printf("%q %q\n", left.Slice.String(), right.Slice.String())
	fmt.Println(left.Summary.LineBreaks, right.Summary.LineBreaks)
	// Output:
	// "foo\n" "bar\r\nbaz"
	// 1 1
}

func TestGapBufferStringIsACopy(t *testing.T) {
	b := mustBuffer(t, "Hello", 10)
	before := b.String()
	b.Delete(0, 5)
	if err := b.Insert(0, strings.Repeat("x", 5)); err != nil {
		t.Fatal(err)
	}
	if before != "Hello" {
		t.Errorf("String() result changed after mutation: %q", before)
	}
}
