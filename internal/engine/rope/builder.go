package rope

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Builder provides efficient incremental construction of rope leaves.
// It buffers writes and cuts them into gap buffers as enough text arrives;
// the last piece is held back until Build, since the next write may continue
// its codepoint or complete its "\r\n".
type Builder struct {
	capacity int
	target   int
	pool     *BufferPool

	leaves   Leaves
	buffer   strings.Builder
	offset   int // bytes already cut into leaves
	totalLen int
	err      error
}

// NewBuilder creates a builder producing gap buffers of the given capacity,
// each initially filled with about target bytes.
func NewBuilder(capacity, target int) (*Builder, error) {
	if capacity < MinChunkCapacity || capacity > MaxSegmentLen {
		return nil, fmt.Errorf("%w: %d not in %d..%d", ErrInvalidCapacity, capacity, MinChunkCapacity, MaxSegmentLen)
	}
	if target < 1 || target > capacity {
		return nil, fmt.Errorf("%w: target fill %d not in 1..%d", ErrInvalidCapacity, target, capacity)
	}
	return &Builder{capacity: capacity, target: target, pool: DefaultPool}, nil
}

// NewDefaultBuilder creates a builder with DefaultChunkCapacity.
func NewDefaultBuilder() *Builder {
	return &Builder{
		capacity: DefaultChunkCapacity,
		target:   DefaultTargetFill(DefaultChunkCapacity),
		pool:     DefaultPool,
	}
}

// WriteString appends a string to the builder.
// It implements io.StringWriter.
func (b *Builder) WriteString(s string) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if len(s) == 0 {
		return 0, nil
	}

	b.totalLen += len(s)
	b.buffer.WriteString(s)

	// Flush to leaves if buffer is large enough
	if b.buffer.Len() >= b.capacity*2 {
		b.flushBuffer(false)
	}
	return len(s), b.err
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	_, err := b.WriteString(string([]byte{c}))
	return err
}

// WriteRune appends a single rune.
func (b *Builder) WriteRune(r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return b.WriteString(string(buf[:n]))
}

// flushBuffer cuts the buffered text into gap buffers. Unless final, the
// last piece stays buffered.
func (b *Builder) flushBuffer(final bool) {
	if b.err != nil || b.buffer.Len() == 0 {
		return
	}

	s := b.buffer.String()
	b.buffer.Reset()

	pieces := splitIntoChunks(s, b.capacity, b.target)
	if !final {
		last := pieces[len(pieces)-1]
		pieces = pieces[:len(pieces)-1]
		defer b.buffer.WriteString(last)
	}

	for _, piece := range pieces {
		leaf, err := b.newLeaf(piece)
		if err != nil {
			var utf8Err *InvalidUTF8Error
			if errors.As(err, &utf8Err) {
				err = &InvalidUTF8Error{Position: b.offset + utf8Err.Position}
			}
			b.err = err
			return
		}
		b.leaves = append(b.leaves, leaf)
		b.offset += len(piece)
	}
}

// newLeaf lays s out like GapBufferFromString, with the gap near the middle.
func (b *Builder) newLeaf(s string) (*GapBuffer, error) {
	return gapBufferFromString(s, b.capacity, b.pool)
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return b.totalLen
}

// Reset clears the builder for reuse, releasing any leaves not yet built.
func (b *Builder) Reset() {
	b.leaves.Release()
	b.reset()
}

func (b *Builder) reset() {
	b.leaves = nil
	b.buffer.Reset()
	b.offset = 0
	b.totalLen = 0
	b.err = nil
}

// Build returns the accumulated leaves and resets the builder.
// It fails if the written text is not valid UTF-8.
func (b *Builder) Build() (Leaves, error) {
	b.flushBuffer(true)

	if b.err != nil {
		err := b.err
		b.Reset()
		return nil, err
	}

	leaves := b.leaves
	b.reset()
	return leaves, nil
}

// ReadFrom implements io.ReaderFrom for efficient reading.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024) // 64KB buffer
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := b.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// LeavesFromString cuts s into gap buffers of the given capacity.
func LeavesFromString(s string, capacity int) (Leaves, error) {
	b, err := NewBuilder(capacity, DefaultTargetFill(capacity))
	if err != nil {
		return nil, err
	}
	if _, err := b.WriteString(s); err != nil {
		b.Reset()
		return nil, err
	}
	return b.Build()
}
