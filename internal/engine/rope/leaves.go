package rope

import (
	"io"
	"strings"
)

// Leaves is an ordered run of rope leaves, the level a tree keeps below its
// internal nodes. Its text is the concatenation of the leaves' text.
type Leaves []*GapBuffer

// Summarize returns the summary of all leaves.
func (l Leaves) Summarize() ChunkSummary {
	var sum ChunkSummary
	for _, leaf := range l {
		sum = sum.Add(leaf.Summarize())
	}
	return sum
}

// Len returns the total number of live bytes.
func (l Leaves) Len() int {
	return l.Summarize().Bytes
}

// String flattens the leaves into a single string.
func (l Leaves) String() string {
	var sb strings.Builder
	sb.Grow(l.Len())
	_, _ = l.WriteTo(&sb)
	return sb.String()
}

// WriteTo writes the text of every leaf to w.
// It implements io.WriterTo.
func (l Leaves) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, leaf := range l {
		s := leaf.AsSlice()
		for _, chunk := range [2]string{s.LeftChunk(), s.RightChunk()} {
			if chunk == "" {
				continue
			}
			n, err := io.WriteString(w, chunk)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// MarshalText flattens the leaves into their text.
// It implements encoding.TextMarshaler.
func (l Leaves) MarshalText() ([]byte, error) {
	var sb strings.Builder
	sb.Grow(l.Len())
	if _, err := l.WriteTo(&sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// UnmarshalText replaces the leaves with text cut into gap buffers of
// DefaultChunkCapacity. It implements encoding.TextUnmarshaler.
func (l *Leaves) UnmarshalText(text []byte) error {
	b := NewDefaultBuilder()
	if _, err := b.Write(text); err != nil {
		b.Reset()
		return err
	}
	leaves, err := b.Build()
	if err != nil {
		return err
	}

	l.Release()
	*l = leaves
	return nil
}

// Release returns every leaf's storage to its pool.
func (l Leaves) Release() {
	for _, leaf := range l {
		leaf.Release()
	}
}

// SeekLeaf returns the index of the leaf containing offset and the offset
// relative to that leaf. An offset on the boundary between two leaves
// resolves to the end of the earlier one. It returns -1 for an empty run and
// panics if offset is past the end.
func SeekLeaf[M Metric[M]](l Leaves, offset M) (int, M) {
	if len(l) == 0 && offset == 0 {
		return -1, offset
	}

	remaining := offset
	for i, leaf := range l {
		m := Measure[M](leaf.Summarize())
		if remaining <= m {
			return i, remaining
		}
		remaining -= m
	}

	panic(&OffsetError{
		Unit:    metricName(offset),
		Offset:  int(offset),
		Measure: int(Measure[M](l.Summarize())),
	})
}

// Pieces is an ordered run of slices, as produced by SplitLeavesAt.
type Pieces []SummarizedSlice

// Summarize returns the sum of the pieces' summaries.
func (p Pieces) Summarize() ChunkSummary {
	var sum ChunkSummary
	for _, piece := range p {
		sum = sum.Add(piece.Summary)
	}
	return sum
}

// String returns a copy of the pieces' text.
func (p Pieces) String() string {
	var sb strings.Builder
	for _, piece := range p {
		sb.WriteString(piece.Slice.LeftChunk())
		sb.WriteString(piece.Slice.RightChunk())
	}
	return sb.String()
}

// SplitLeavesAt splits the run at offset: the leaf containing it is asked to
// split itself, and the leaves on either side are kept whole. Empty pieces
// are dropped.
func SplitLeavesAt[M Metric[M]](l Leaves, offset M) (left, right Pieces) {
	idx, local := SeekLeaf(l, offset)
	if idx < 0 {
		return nil, nil
	}

	for _, leaf := range l[:idx] {
		left = append(left, SummarizedSlice{Slice: leaf.AsSlice(), Summary: leaf.Summarize()})
	}

	leaf := l[idx]
	lp, rp := SplitAt(leaf.AsSlice(), local, leaf.Summarize())
	if !lp.Slice.IsEmpty() {
		left = append(left, lp)
	}
	if !rp.Slice.IsEmpty() {
		right = append(right, rp)
	}

	for _, leaf := range l[idx+1:] {
		right = append(right, SummarizedSlice{Slice: leaf.AsSlice(), Summary: leaf.Summarize()})
	}

	return left, right
}
