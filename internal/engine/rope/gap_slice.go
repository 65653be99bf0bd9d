package rope

import (
	"strconv"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// GapSlice is a read-only view over a GapBuffer's backing bytes.
//
// The first LenLeft() bytes and the last LenRight() bytes of the view are the
// two live segments; whatever lies between them is the gap. A slice with an
// empty segment has no gap: the other segment spans the whole view.
//
// A GapSlice borrows its bytes. The strings returned by LeftChunk and
// RightChunk alias them without copying, so neither the slice nor anything
// read from it may be used after the owning buffer is mutated.
type GapSlice struct {
	bytes       []byte
	leftSummary ChunkSummary
	lenRight    uint16
}

// SummarizedSlice pairs a slice with its summary.
type SummarizedSlice struct {
	Slice   GapSlice
	Summary ChunkSummary
}

// bytesToString views b as a string without copying. b must be valid UTF-8
// and must not change while the string is in use.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// LeftChunk returns the segment before the gap.
func (s GapSlice) LeftChunk() string {
	return bytesToString(s.bytes[:s.LenLeft()])
}

// RightChunk returns the segment after the gap.
func (s GapSlice) RightChunk() string {
	return bytesToString(s.bytes[len(s.bytes)-s.LenRight():])
}

// LastChunk returns the right segment if it's not empty, or the left one
// otherwise.
func (s GapSlice) LastChunk() string {
	if s.lenRight == 0 {
		return s.LeftChunk()
	}
	return s.RightChunk()
}

// Len returns the number of live bytes.
func (s GapSlice) Len() int {
	return s.LenLeft() + s.LenRight()
}

// LenLeft returns the byte length of the left segment.
func (s GapSlice) LenLeft() int {
	return s.leftSummary.Bytes
}

// LenRight returns the byte length of the right segment.
func (s GapSlice) LenRight() int {
	return int(s.lenRight)
}

// LenGap returns the number of unused bytes between the segments.
func (s GapSlice) LenGap() int {
	return len(s.bytes) - s.Len()
}

// IsEmpty returns true if the slice has no live bytes.
func (s GapSlice) IsEmpty() bool {
	return s.Len() == 0
}

// LeftSummary returns the cached summary of the left segment.
func (s GapSlice) LeftSummary() ChunkSummary {
	return s.leftSummary
}

// Summarize returns the summary of the whole slice. Only the right segment
// is scanned.
func (s GapSlice) Summarize() ChunkSummary {
	return s.leftSummary.Add(SummarizeString(s.RightChunk()))
}

// rightSummary derives the right segment's summary from the full one.
func (s GapSlice) rightSummary(summary ChunkSummary) ChunkSummary {
	if debugAssertions {
		assertSummary(summary, s.Summarize())
	}
	return summary.Sub(s.leftSummary)
}

// Byte returns the byte at the given logical index.
// It panics if the index is not less than Len().
func (s GapSlice) Byte(index int) byte {
	if debugAssertions && (index < 0 || index >= s.Len()) {
		panic(&OffsetError{Unit: "byte", Offset: index, Measure: s.Len() - 1})
	}

	if index < s.LenLeft() {
		return s.bytes[index]
	}
	return s.bytes[len(s.bytes)-s.LenRight()+index-s.LenLeft()]
}

// IsCharBoundary reports whether the logical byte offset starts a codepoint
// or sits at the end of a segment. The seam is always a boundary.
func (s GapSlice) IsCharBoundary(offset int) bool {
	if offset < 0 || offset > s.Len() {
		return false
	}
	if offset <= s.LenLeft() {
		return isCharBoundary(s.LeftChunk(), offset)
	}
	return isCharBoundary(s.RightChunk(), offset-s.LenLeft())
}

// AssertCharBoundary panics with a *CharBoundaryError naming the segment and
// local offset if offset is inside a codepoint.
func (s GapSlice) AssertCharBoundary(offset int) {
	if offset < 0 || offset > s.Len() {
		panic(&OffsetError{Unit: "byte", Offset: offset, Measure: s.Len()})
	}
	if s.IsCharBoundary(offset) {
		return
	}
	if offset < s.LenLeft() {
		panic(&CharBoundaryError{Segment: SegmentLeft, Chunk: s.LeftChunk(), Offset: offset})
	}
	panic(&CharBoundaryError{
		Segment: SegmentRight,
		Chunk:   s.RightChunk(),
		Offset:  offset - s.LenLeft(),
	})
}

func isCharBoundary(chunk string, offset int) bool {
	return offset == 0 || offset == len(chunk) || utf8.RuneStart(chunk[offset])
}

// AssertInvariants recomputes the left segment's summary and checks the
// gap bookkeeping, panicking with an *InvariantError on any mismatch.
func (s GapSlice) AssertInvariants() {
	if s.Len() > len(s.bytes) {
		panic(&InvariantError{Slice: s, Message: "live segments overlap"})
	}
	if !utf8.Valid(s.bytes[:s.LenLeft()]) {
		panic(&InvariantError{Slice: s, Message: "left segment is not valid UTF-8"})
	}
	if !utf8.Valid(s.bytes[len(s.bytes)-s.LenRight():]) {
		panic(&InvariantError{Slice: s, Message: "right segment is not valid UTF-8"})
	}
	if got := SummarizeString(s.LeftChunk()); got != s.leftSummary {
		panic(&InvariantError{
			Slice:   s,
			Message: "cached left summary " + s.leftSummary.String() + " != actual " + got.String(),
		})
	}

	if s.LenRight() == 0 && s.LenLeft() != len(s.bytes) {
		panic(&InvariantError{Slice: s, Message: "slice without a right segment has a gap"})
	}
	if s.LenLeft() == 0 && s.LenRight() != len(s.bytes) {
		panic(&InvariantError{Slice: s, Message: "slice without a left segment has a gap"})
	}
}

// HasTrailingNewline returns true if the slice ends with '\n'.
func (s GapSlice) HasTrailingNewline() bool {
	return strings.HasSuffix(s.LastChunk(), "\n")
}

// TruncateLastChar returns the slice without its final codepoint, together
// with the new summary. summary must be the slice's summary and the slice
// must not be empty.
func (s GapSlice) TruncateLastChar(summary ChunkSummary) (GapSlice, ChunkSummary) {
	if debugAssertions {
		if s.Len() == 0 {
			panic(&OffsetError{Unit: "char", Offset: 1, Measure: 0})
		}
		assertSummary(summary, s.Summarize())
	}

	lastChar, _ := utf8.DecodeLastRuneInString(s.LastChunk())
	removed := SummarizeRune(lastChar)
	lenUTF8 := removed.Bytes

	switch {
	// There's no right segment, so the left one gets shorter.
	case s.LenRight() < lenUTF8:
		s.leftSummary = s.leftSummary.Sub(removed)
		s.bytes = s.bytes[:s.LenLeft()]
		return s, s.leftSummary

	// The right segment has 2 or more characters, so it gets shorter.
	case s.LenRight() > lenUTF8:
		s.lenRight -= uint16(lenUTF8)
		s.bytes = s.bytes[:len(s.bytes)-lenUTF8]
		return s, summary.Sub(removed)

	// The right segment is exactly one character, so only the left one stays.
	default:
		s.lenRight = 0
		s.bytes = s.bytes[:s.LenLeft()]
		return s, s.leftSummary
	}
}

// TruncateTrailingLineBreak removes a trailing "\n" or "\r\n", returning the
// new slice and summary. Slices without a trailing newline are returned
// unchanged.
func (s GapSlice) TruncateTrailingLineBreak(summary ChunkSummary) (GapSlice, ChunkSummary) {
	if debugAssertions {
		assertSummary(summary, s.Summarize())
	}

	if !s.HasTrailingNewline() {
		return s, summary
	}

	s, summary = s.TruncateLastChar(summary)

	if strings.HasSuffix(s.LastChunk(), "\r") {
		s, summary = s.TruncateLastChar(summary)
	}

	return s, summary
}

// SplitAt splits the slice at offset, expressed in metric M, returning the
// left and right slices and their summaries. summary must be the slice's
// summary; it is only cross-checked when debug assertions are on.
//
// The two summaries add up to summary, the left one measures exactly offset,
// and the live bytes of left followed by those of right are the live bytes
// of s. Neither result spans the gap: each has at most one segment plus the
// gap bytes it inherited.
//
//	buf := GapBufferFromString("foo\nbar\r\nbaz", 20)
//	s := buf.AsSlice()
//	left, right := SplitAt(s, RawLineMetric(1), s.Summarize())
//	// left.Slice: "foo\n", right.Slice: "bar\r\nbaz"
//
// It panics if offset is greater than the M-measure of the slice or if it
// falls inside a codepoint.
func SplitAt[M Metric[M]](s GapSlice, offset M, summary ChunkSummary) (left, right SummarizedSlice) {
	if debugAssertions {
		assertSummary(summary, s.Summarize())
		if total := Measure[M](summary); offset < 0 || offset > total {
			panic(&OffsetError{Unit: metricName(offset), Offset: int(offset), Measure: int(total)})
		}
	}

	seam := Measure[M](s.leftSummary)

	if offset <= seam {
		byteOffset := offset.ToByteOffset(s.LeftChunk())
		s.AssertCharBoundary(byteOffset)

		bytesLeft, bytesRight := s.splitBytes(byteOffset)

		leftLeftSummary := s.leftSummary
		if byteOffset != s.LenLeft() {
			leftLeftSummary = offset.UpTo(s.LeftChunk(), s.leftSummary, byteOffset)
		}

		left.Slice = GapSlice{bytes: bytesLeft, leftSummary: leftLeftSummary}
		left.Summary = leftLeftSummary

		right.Slice = GapSlice{
			bytes:       bytesRight,
			leftSummary: s.leftSummary.Sub(leftLeftSummary),
			lenRight:    s.lenRight,
		}
		right.Summary = summary.Sub(leftLeftSummary)
		return left, right
	}

	offset -= seam

	rightChunk := s.RightChunk()
	rightSummary := summary.Sub(s.leftSummary)

	byteOffset := offset.ToByteOffset(rightChunk)
	s.AssertCharBoundary(s.LenLeft() + byteOffset)

	bytesLeft, bytesRight := s.splitBytes(s.LenLeft() + byteOffset)

	rightLeftSummary := offset.UpTo(rightChunk, rightSummary, byteOffset)

	left.Slice = GapSlice{
		bytes:       bytesLeft,
		leftSummary: s.leftSummary,
		lenRight:    uint16(rightLeftSummary.Bytes),
	}

	right.Slice = GapSlice{bytes: bytesRight, leftSummary: rightSummary.Sub(rightLeftSummary)}
	right.Summary = right.Slice.leftSummary

	left.Summary = summary.Sub(right.Summary)
	return left, right
}

// splitBytes splits the backing bytes at a logical byte offset. Offsets past
// the seam skip over the gap; the seam itself drops the gap entirely.
func (s GapSlice) splitBytes(byteOffset int) ([]byte, []byte) {
	var offset int

	switch {
	case byteOffset < s.LenLeft():
		offset = byteOffset
	case byteOffset > s.LenLeft():
		offset = byteOffset + s.LenGap()
	default:
		return s.bytes[:s.LenLeft():s.LenLeft()], s.bytes[len(s.bytes)-s.LenRight():]
	}

	return s.bytes[:offset:offset], s.bytes[offset:]
}

// String returns a copy of the live text of the slice.
func (s GapSlice) String() string {
	var sb strings.Builder
	sb.Grow(s.Len())
	sb.WriteString(s.LeftChunk())
	sb.WriteString(s.RightChunk())
	return sb.String()
}

// Equal reports whether the live text of the slice equals str.
func (s GapSlice) Equal(str string) bool {
	return len(str) == s.Len() &&
		s.LeftChunk() == str[:s.LenLeft()] &&
		s.RightChunk() == str[s.LenLeft():]
}

// GoString renders the slice for debugging: the escaped left segment, one
// '~' per gap byte and the escaped right segment, between double quotes.
func (s GapSlice) GoString() string {
	var sb strings.Builder
	sb.Grow(s.Len() + s.LenGap() + 2)
	sb.WriteByte('"')
	writeEscaped(&sb, s.LeftChunk())
	sb.WriteString(strings.Repeat("~", s.LenGap()))
	writeEscaped(&sb, s.RightChunk())
	sb.WriteByte('"')
	return sb.String()
}

// writeEscaped writes chunk the way %q would, without the quotes.
func writeEscaped(sb *strings.Builder, chunk string) {
	quoted := strconv.Quote(chunk)
	sb.WriteString(quoted[1 : len(quoted)-1])
}
