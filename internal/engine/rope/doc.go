// Package rope provides the leaf storage of a rope: fixed-capacity gap
// buffers and the read-only slices a tree navigates them through.
//
// A leaf keeps its text in up to two UTF-8 segments separated by an unused
// gap, so an edit near the previous one only moves a few bytes. Every leaf
// carries a ChunkSummary (bytes, codepoints, UTF-16 code units, line breaks)
// that a tree adds up in its internal nodes; because summaries also subtract,
// a tree can derive one side of a split from the other without rescanning.
//
// Positions are expressed in metrics (ByteMetric, CharMetric, UTF16Metric,
// RawLineMetric) and a leaf splits itself at any of them:
//
//	buf, _ := rope.GapBufferFromString("foo\nbar\r\nbaz", 20)
//	s := buf.AsSlice()
//	left, right := rope.SplitAt(s, rope.RawLineMetric(1), s.Summarize())
//	left.Slice.String()  // "foo\n"
//	right.Slice.String() // "bar\r\nbaz"
//
// Slices borrow their buffer's bytes without copying and must not outlive
// the next mutation of that buffer. Contract violations (offsets past the
// end or inside a codepoint, summaries that don't match their slice) panic
// with typed errors; the cross-checks that cost a rescan only run when built
// with the ropedebug tag.
package rope
