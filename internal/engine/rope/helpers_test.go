package rope

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// sampleTexts covers ASCII, multi-byte codepoints, surrogate pairs and both
// line terminators.
var sampleTexts = []string{
	"",
	"a",
	"Hello",
	"foo\nbar\r\nbaz",
	"日本語\nテキスト",
	"emoji 🎉 test\r\n",
	"\n\n\n",
	"a\r\nb\r\n",
	"𝄞𝄞\n𝄞",
}

// withDebugAssertions turns on the debug cross-checks for one test.
func withDebugAssertions(t *testing.T) {
	t.Helper()
	prev := debugAssertions
	debugAssertions = true
	t.Cleanup(func() { debugAssertions = prev })
}

// mustBuffer creates a gap buffer holding s, failing the test on error.
func mustBuffer(t testing.TB, s string, capacity int) *GapBuffer {
	t.Helper()
	b, err := GapBufferFromString(s, capacity)
	if err != nil {
		t.Fatalf("GapBufferFromString(%q, %d): %v", s, capacity, err)
	}
	return b
}

// layouts returns one buffer per char boundary of s, each with its gap at
// that boundary, plus one without any gap.
func layouts(t testing.TB, s string) []*GapBuffer {
	t.Helper()
	var out []*GapBuffer
	for _, k := range byteBoundaries(s) {
		b := mustBuffer(t, s, len(s)+5)
		b.moveGap(int(k))
		out = append(out, b)
	}
	if len(s) > 0 {
		out = append(out, mustBuffer(t, s, len(s)))
	}
	return out
}

// recoverPanic runs fn and returns the value it panicked with, or nil.
func recoverPanic(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

// expectPanic fails the test unless fn panics with an error of type *E.
func expectPanic[E error](t *testing.T, fn func()) E {
	t.Helper()
	var target E
	v := recoverPanic(fn)
	if v == nil {
		t.Fatalf("expected panic with %T, got none", target)
		return target
	}
	err, ok := v.(error)
	if !ok || !errors.As(err, &target) {
		t.Fatalf("expected panic with %T, got %v (%T)", target, v, v)
	}
	return target
}

func byteBoundaries(s string) []ByteMetric {
	var out []ByteMetric
	for i := range s {
		out = append(out, ByteMetric(i))
	}
	return append(out, ByteMetric(len(s)))
}

func charOffsets(s string) []CharMetric {
	var out []CharMetric
	for i := 0; i <= utf8.RuneCountInString(s); i++ {
		out = append(out, CharMetric(i))
	}
	return out
}

func utf16Offsets(s string) []UTF16Metric {
	out := []UTF16Metric{0}
	n := 0
	for _, r := range s {
		n += SummarizeRune(r).UTF16Units
		out = append(out, UTF16Metric(n))
	}
	return out
}

func lineOffsets(s string) []RawLineMetric {
	var out []RawLineMetric
	for i := 0; i <= strings.Count(s, "\n"); i++ {
		out = append(out, RawLineMetric(i))
	}
	return out
}
