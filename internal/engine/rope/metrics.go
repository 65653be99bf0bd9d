package rope

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Metric is a unit of measure used to address positions inside a chunk
// independently of raw byte offsets.
//
// A metric value is an offset expressed in that unit. The integer kind gives
// every metric ordering and subtraction against values of the same type.
//
//   - Measure reads the metric's scalar out of a summary. It ignores its
//     receiver, so callers invoke it on the zero value.
//   - ToByteOffset returns the byte offset within chunk of the position the
//     receiver denotes.
//   - UpTo returns the summary of chunk[:byteOffset]. summary is the summary
//     of the whole chunk and byteOffset must be the result of ToByteOffset.
type Metric[M any] interface {
	~int
	Measure(summary ChunkSummary) M
	ToByteOffset(chunk string) int
	UpTo(chunk string, summary ChunkSummary, byteOffset int) ChunkSummary
}

// Measure returns the M-measure of a summary.
func Measure[M Metric[M]](summary ChunkSummary) M {
	var m M
	return m.Measure(summary)
}

// ByteMetric addresses positions by UTF-8 byte offset.
type ByteMetric int

// Measure implements Metric.
func (ByteMetric) Measure(summary ChunkSummary) ByteMetric {
	return ByteMetric(summary.Bytes)
}

// ToByteOffset implements Metric. The result is not checked against char
// boundaries; the caller owns that check since only it knows which segment
// the chunk is.
func (m ByteMetric) ToByteOffset(chunk string) int {
	if int(m) > len(chunk) {
		panic(&OffsetError{Unit: "byte", Offset: int(m), Measure: len(chunk), Chunk: chunk})
	}
	return int(m)
}

// UpTo implements Metric.
func (m ByteMetric) UpTo(chunk string, summary ChunkSummary, byteOffset int) ChunkSummary {
	return summaryUpTo(chunk, summary, byteOffset)
}

// CharMetric addresses positions by codepoint.
type CharMetric int

// Measure implements Metric.
func (CharMetric) Measure(summary ChunkSummary) CharMetric {
	return CharMetric(summary.Chars)
}

// ToByteOffset implements Metric.
func (m CharMetric) ToByteOffset(chunk string) int {
	n := int(m)
	i := 0
	for n > 0 && i < len(chunk) {
		if chunk[i] < utf8.RuneSelf {
			i++
		} else {
			_, size := utf8.DecodeRuneInString(chunk[i:])
			i += size
		}
		n--
	}
	if n > 0 {
		panic(&OffsetError{
			Unit:    "char",
			Offset:  int(m),
			Measure: utf8.RuneCountInString(chunk),
			Chunk:   chunk,
		})
	}
	return i
}

// UpTo implements Metric.
func (m CharMetric) UpTo(chunk string, summary ChunkSummary, byteOffset int) ChunkSummary {
	return summaryUpTo(chunk, summary, byteOffset)
}

// UTF16Metric addresses positions by UTF-16 code unit, as LSP clients do.
type UTF16Metric int

// Measure implements Metric.
func (UTF16Metric) Measure(summary ChunkSummary) UTF16Metric {
	return UTF16Metric(summary.UTF16Units)
}

// ToByteOffset implements Metric. An offset between the two halves of a
// surrogate pair has no byte offset and panics.
func (m UTF16Metric) ToByteOffset(chunk string) int {
	n := int(m)
	i := 0
	for n > 0 && i < len(chunk) {
		if chunk[i] < utf8.RuneSelf {
			i++
			n--
			continue
		}

		_, size := utf8.DecodeRuneInString(chunk[i:])
		if size == 4 {
			if n == 1 {
				panic(&UTF16BoundaryError{Chunk: chunk, Offset: int(m), ByteOffset: i})
			}
			n -= 2
		} else {
			n--
		}
		i += size
	}
	if n > 0 {
		panic(&OffsetError{
			Unit:    "utf16",
			Offset:  int(m),
			Measure: SummarizeString(chunk).UTF16Units,
			Chunk:   chunk,
		})
	}
	return i
}

// UpTo implements Metric.
func (m UTF16Metric) UpTo(chunk string, summary ChunkSummary, byteOffset int) ChunkSummary {
	return summaryUpTo(chunk, summary, byteOffset)
}

// RawLineMetric counts line breaks. Offset n is the position just past the
// n-th '\n'; a "\r\n" terminator therefore stays on the line it ends.
type RawLineMetric int

// Measure implements Metric.
func (RawLineMetric) Measure(summary ChunkSummary) RawLineMetric {
	return RawLineMetric(summary.LineBreaks)
}

// ToByteOffset implements Metric.
func (m RawLineMetric) ToByteOffset(chunk string) int {
	offset := 0
	for n := int(m); n > 0; n-- {
		i := strings.IndexByte(chunk[offset:], '\n')
		if i < 0 {
			panic(&OffsetError{
				Unit:    "line",
				Offset:  int(m),
				Measure: strings.Count(chunk, "\n"),
				Chunk:   chunk,
			})
		}
		offset += i + 1
	}
	return offset
}

// UpTo implements Metric.
func (m RawLineMetric) UpTo(chunk string, summary ChunkSummary, byteOffset int) ChunkSummary {
	return summaryUpTo(chunk, summary, byteOffset)
}

// UTF16BoundaryError reports a UTF-16 offset that falls between the two
// halves of a surrogate pair.
type UTF16BoundaryError struct {
	Chunk string
	// Offset is the requested UTF-16 offset.
	Offset int
	// ByteOffset is where the offending codepoint starts.
	ByteOffset int
}

// Error implements the error interface.
func (e *UTF16BoundaryError) Error() string {
	r, _ := utf8.DecodeRuneInString(e.Chunk[e.ByteOffset:])
	return fmt.Sprintf("utf16 offset %d splits the surrogate pair of %q at byte %d of %s",
		e.Offset, r, e.ByteOffset, quoteChunk(e.Chunk))
}

// summaryUpTo summarizes chunk[:byteOffset], scanning whichever side of the
// cut is shorter.
func summaryUpTo(chunk string, summary ChunkSummary, byteOffset int) ChunkSummary {
	if byteOffset <= len(chunk)/2 {
		return SummarizeString(chunk[:byteOffset])
	}
	return summary.Sub(SummarizeString(chunk[byteOffset:]))
}

// metricName names the unit of a metric offset in diagnostics.
func metricName(offset any) string {
	switch offset.(type) {
	case ByteMetric:
		return "byte"
	case CharMetric:
		return "char"
	case UTF16Metric:
		return "utf16"
	case RawLineMetric:
		return "line"
	default:
		return fmt.Sprintf("%T", offset)
	}
}
