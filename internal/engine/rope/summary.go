package rope

import (
	"fmt"
	"unicode/utf8"
)

// ChunkSummary holds additive metrics for a span of text.
// Unlike a monoid summary it forms a group: every field is a plain count, so
// a summary can be subtracted back out of a sum it took part in.
type ChunkSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of Unicode codepoints.
	Chars int

	// UTF16Units is the UTF-16 code unit count (for LSP compatibility).
	UTF16Units int

	// LineBreaks is the number of '\n' bytes.
	LineBreaks int
}

// Add combines two summaries.
func (s ChunkSummary) Add(other ChunkSummary) ChunkSummary {
	return ChunkSummary{
		Bytes:      s.Bytes + other.Bytes,
		Chars:      s.Chars + other.Chars,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		LineBreaks: s.LineBreaks + other.LineBreaks,
	}
}

// Sub removes other from s. It exactly undoes a prior Add of other.
func (s ChunkSummary) Sub(other ChunkSummary) ChunkSummary {
	return ChunkSummary{
		Bytes:      s.Bytes - other.Bytes,
		Chars:      s.Chars - other.Chars,
		UTF16Units: s.UTF16Units - other.UTF16Units,
		LineBreaks: s.LineBreaks - other.LineBreaks,
	}
}

// Neg returns the additive inverse of s.
func (s ChunkSummary) Neg() ChunkSummary {
	return ChunkSummary{}.Sub(s)
}

// IsZero returns true if this is the identity summary.
func (s ChunkSummary) IsZero() bool {
	return s == ChunkSummary{}
}

// String renders the summary for diagnostics.
func (s ChunkSummary) String() string {
	return fmt.Sprintf("{bytes: %d, chars: %d, utf16: %d, lines: %d}",
		s.Bytes, s.Chars, s.UTF16Units, s.LineBreaks)
}

// SummarizeString calculates the summary of a valid UTF-8 string.
func SummarizeString(s string) ChunkSummary {
	sum := ChunkSummary{Bytes: len(s)}

	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			sum.Chars++
			sum.UTF16Units++
			if b == '\n' {
				sum.LineBreaks++
			}
			i++
			continue
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		sum.Chars++
		if size == 4 {
			sum.UTF16Units += 2 // Surrogate pair
		} else {
			sum.UTF16Units++
		}
		i += size
	}

	return sum
}

// SummarizeBytes is SummarizeString for a byte slice.
func SummarizeBytes(b []byte) ChunkSummary {
	return SummarizeString(bytesToString(b))
}

// SummarizeRune returns the summary of a single codepoint.
func SummarizeRune(r rune) ChunkSummary {
	sum := ChunkSummary{
		Bytes:      utf8.RuneLen(r),
		Chars:      1,
		UTF16Units: 1,
	}
	if r > 0xFFFF {
		sum.UTF16Units = 2
	}
	if r == '\n' {
		sum.LineBreaks = 1
	}
	return sum
}
