package rope

import (
	"fmt"
	"math"
	"strings"
)

// MaxSegmentLen is the largest capacity a gap buffer may have. A gap slice
// stores its right segment's length in 16 bits.
const MaxSegmentLen = math.MaxUint16

// GapBuffer owns the fixed-capacity storage of one rope leaf.
// Live text is kept in two segments, one at each end of the storage, with
// the unused gap between them. It is the only writer of its bytes; every
// mutation invalidates the slices previously returned by AsSlice.
type GapBuffer struct {
	bytes        []byte
	leftSummary  ChunkSummary
	rightSummary ChunkSummary
	pool         *BufferPool
}

// NewGapBuffer creates an empty gap buffer with the given capacity, drawing
// its storage from DefaultPool.
func NewGapBuffer(capacity int) (*GapBuffer, error) {
	return newGapBuffer(capacity, DefaultPool)
}

func newGapBuffer(capacity int, pool *BufferPool) (*GapBuffer, error) {
	if capacity < 1 || capacity > MaxSegmentLen {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidCapacity, capacity, MaxSegmentLen)
	}
	return &GapBuffer{bytes: pool.Get(capacity), pool: pool}, nil
}

// GapBufferFromString creates a gap buffer holding s. The text is split near
// its middle, leaving the gap there: GapBufferFromString("Hello", 10) renders
// as "He~~~~~llo".
func GapBufferFromString(s string, capacity int) (*GapBuffer, error) {
	return gapBufferFromString(s, capacity, DefaultPool)
}

func gapBufferFromString(s string, capacity int, pool *BufferPool) (*GapBuffer, error) {
	b, err := newGapBuffer(capacity, pool)
	if err != nil {
		return nil, err
	}
	if err := b.checkInsert(s); err != nil {
		b.Release()
		return nil, err
	}

	mid := adjustSplitPoint(s, len(s)/2)

	copy(b.bytes, s[:mid])
	copy(b.bytes[capacity-(len(s)-mid):], s[mid:])
	b.leftSummary = SummarizeString(s[:mid])
	b.rightSummary = SummarizeString(s[mid:])

	return b, nil
}

// Cap returns the capacity of the buffer.
func (b *GapBuffer) Cap() int {
	return len(b.bytes)
}

// Len returns the number of live bytes.
func (b *GapBuffer) Len() int {
	return b.lenLeft() + b.lenRight()
}

// Free returns the width of the gap, i.e. how many bytes can be inserted.
func (b *GapBuffer) Free() int {
	return b.Cap() - b.Len()
}

func (b *GapBuffer) lenLeft() int {
	return b.leftSummary.Bytes
}

func (b *GapBuffer) lenRight() int {
	return b.rightSummary.Bytes
}

// gapEnd is the index of the first byte of the right segment.
func (b *GapBuffer) gapEnd() int {
	return b.Cap() - b.lenRight()
}

// Summarize returns the summary of the buffer's live text.
func (b *GapBuffer) Summarize() ChunkSummary {
	return b.leftSummary.Add(b.rightSummary)
}

// AsSlice returns a read-only view of the buffer. A buffer with an empty
// segment produces a slice without a gap.
func (b *GapBuffer) AsSlice() GapSlice {
	var bytes []byte
	switch {
	case b.lenRight() == 0:
		bytes = b.bytes[:b.lenLeft()]
	case b.lenLeft() == 0:
		bytes = b.bytes[b.gapEnd():]
	default:
		bytes = b.bytes
	}

	return GapSlice{
		bytes:       bytes,
		leftSummary: b.leftSummary,
		lenRight:    uint16(b.lenRight()),
	}
}

// String returns a copy of the buffer's live text.
func (b *GapBuffer) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	sb.Write(b.bytes[:b.lenLeft()])
	sb.Write(b.bytes[b.gapEnd():])
	return sb.String()
}

// Insert inserts text at the given byte offset, moving the gap there.
// It returns ErrCapacityExceeded if text doesn't fit in the gap and an
// *InvalidUTF8Error if text isn't valid UTF-8; the buffer is unchanged in
// both cases. It panics if offset is not a char boundary.
func (b *GapBuffer) Insert(offset int, text string) error {
	if err := b.checkInsert(text); err != nil {
		return err
	}
	if len(text) == 0 {
		return nil
	}

	b.AsSlice().AssertCharBoundary(offset)
	b.moveGap(offset)

	copy(b.bytes[b.lenLeft():], text)
	b.leftSummary = b.leftSummary.Add(SummarizeString(text))
	return nil
}

func (b *GapBuffer) checkInsert(text string) error {
	if len(text) > b.Free() {
		return fmt.Errorf("%w: inserting %d bytes with %d free", ErrCapacityExceeded, len(text), b.Free())
	}
	if pos := ValidateUTF8(text); pos >= 0 {
		return &InvalidUTF8Error{Position: pos}
	}
	return nil
}

// Delete removes the bytes in [start, end), moving the gap to start.
// It panics if either offset is out of range or not a char boundary.
func (b *GapBuffer) Delete(start, end int) {
	if start > end {
		panic(&OffsetError{Unit: "byte", Offset: start, Measure: end})
	}
	s := b.AsSlice()
	s.AssertCharBoundary(start)
	s.AssertCharBoundary(end)
	if start == end {
		return
	}

	b.moveGap(start)

	removed := SummarizeBytes(b.bytes[b.gapEnd() : b.gapEnd()+end-start])
	b.rightSummary = b.rightSummary.Sub(removed)
}

// moveGap moves the gap so that the left segment ends at offset.
func (b *GapBuffer) moveGap(offset int) {
	lenLeft, gapEnd := b.lenLeft(), b.gapEnd()

	switch {
	case offset < lenLeft:
		// Move the tail of the left segment to the front of the right one.
		d := lenLeft - offset
		moved := SummarizeBytes(b.bytes[offset:lenLeft])
		copy(b.bytes[gapEnd-d:gapEnd], b.bytes[offset:lenLeft])
		b.leftSummary = b.leftSummary.Sub(moved)
		b.rightSummary = b.rightSummary.Add(moved)

	case offset > lenLeft:
		// Move the head of the right segment to the end of the left one.
		d := offset - lenLeft
		moved := SummarizeBytes(b.bytes[gapEnd : gapEnd+d])
		copy(b.bytes[lenLeft:lenLeft+d], b.bytes[gapEnd:gapEnd+d])
		b.leftSummary = b.leftSummary.Add(moved)
		b.rightSummary = b.rightSummary.Sub(moved)
	}
}

// Release returns the buffer's storage to its pool. The buffer, and every
// slice taken from it, must not be used afterwards.
func (b *GapBuffer) Release() {
	if b.bytes == nil {
		return
	}
	b.pool.Put(b.bytes)
	b.bytes = nil
	b.leftSummary = ChunkSummary{}
	b.rightSummary = ChunkSummary{}
}

// adjustSplitPoint moves offset back to the nearest char boundary of s that
// doesn't separate a "\r\n" pair.
func adjustSplitPoint(s string, offset int) int {
	for offset > 0 && offset < len(s) && !isUTF8Start(s[offset]) {
		offset--
	}
	if offset > 0 && offset < len(s) && s[offset-1] == '\r' && s[offset] == '\n' {
		offset--
	}
	return offset
}
