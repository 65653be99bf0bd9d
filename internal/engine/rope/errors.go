package rope

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Errors returned by gap buffer operations.
var (
	// ErrCapacityExceeded indicates the text does not fit in the buffer's gap.
	ErrCapacityExceeded = errors.New("gap buffer capacity exceeded")

	// ErrInvalidCapacity indicates a capacity outside 1..MaxSegmentLen.
	ErrInvalidCapacity = errors.New("invalid gap buffer capacity")
)

// The remaining error types describe contract violations. They are never
// returned; operations panic with them so a recovered value can be inspected
// with errors.As.

// Segment names one of the two live segments of a gap slice.
type Segment int

const (
	// SegmentLeft is the segment before the gap.
	SegmentLeft Segment = iota
	// SegmentRight is the segment after the gap.
	SegmentRight
)

// String returns the segment name.
func (s Segment) String() string {
	if s == SegmentLeft {
		return "left"
	}
	return "right"
}

// CharBoundaryError reports a byte offset that falls inside a codepoint.
type CharBoundaryError struct {
	// Segment is the live segment containing the offset.
	Segment Segment
	// Chunk is the text of that segment.
	Chunk string
	// Offset is the offset local to Chunk.
	Offset int
}

// Error implements the error interface.
func (e *CharBoundaryError) Error() string {
	start := e.Offset
	for start > 0 && !utf8.RuneStart(e.Chunk[start]) {
		start--
	}
	r, size := utf8.DecodeRuneInString(e.Chunk[start:])
	return fmt.Sprintf(
		"byte offset %d is not a char boundary of the %s segment: it is inside %q (bytes %d..%d) of %s",
		e.Offset, e.Segment, r, start, start+size, quoteChunk(e.Chunk),
	)
}

// OffsetError reports an offset past the end of what it indexes.
type OffsetError struct {
	// Unit names the metric the offset is expressed in.
	Unit string
	// Offset is the requested offset.
	Offset int
	// Measure is the largest valid offset.
	Measure int
	// Chunk is the text being indexed, if there is a single one.
	Chunk string
}

// Error implements the error interface.
func (e *OffsetError) Error() string {
	if e.Chunk != "" {
		return fmt.Sprintf("%s offset %d is out of bounds of %s (%s measure is %d)",
			e.Unit, e.Offset, quoteChunk(e.Chunk), e.Unit, e.Measure)
	}
	return fmt.Sprintf("%s offset %d is out of bounds (%s measure is %d)",
		e.Unit, e.Offset, e.Unit, e.Measure)
}

// SummaryMismatchError reports a caller-supplied summary that does not
// describe the slice it was passed with.
type SummaryMismatchError struct {
	Got  ChunkSummary
	Want ChunkSummary
}

// Error implements the error interface.
func (e *SummaryMismatchError) Error() string {
	return fmt.Sprintf("summary mismatch: got %s, want %s", e.Got, e.Want)
}

// InvariantError reports a gap slice whose bookkeeping is inconsistent.
type InvariantError struct {
	Slice   GapSlice
	Message string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("gap slice over %d bytes (left %d, right %d): %s",
		len(e.Slice.bytes), e.Slice.LenLeft(), e.Slice.LenRight(), e.Message)
}

// InvalidUTF8Error reports text rejected by a gap buffer.
type InvalidUTF8Error struct {
	// Position is the byte offset of the first invalid sequence.
	Position int
}

// Error implements the error interface.
func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 at byte %d", e.Position)
}

// quoteChunk quotes a chunk, eliding the middle of long ones.
func quoteChunk(s string) string {
	const maxShown = 64
	if len(s) <= maxShown {
		return fmt.Sprintf("%q", s)
	}

	head := s[:maxShown/2]
	for len(head) > 0 && !utf8.ValidString(head) {
		head = head[:len(head)-1]
	}
	tail := s[len(s)-maxShown/2:]
	for len(tail) > 0 && !utf8.ValidString(tail) {
		tail = tail[1:]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%q", head)
	fmt.Fprintf(&sb, "...(%d bytes)...", len(s)-len(head)-len(tail))
	fmt.Fprintf(&sb, "%q", tail)
	return sb.String()
}

func assertSummary(got, want ChunkSummary) {
	if got != want {
		panic(&SummaryMismatchError{Got: got, Want: want})
	}
}
