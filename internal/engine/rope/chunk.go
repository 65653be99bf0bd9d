package rope

import "unicode/utf8"

// Chunk size constants control the granularity of leaf storage.
const (
	// DefaultChunkCapacity is the gap buffer capacity used when none is configured.
	DefaultChunkCapacity = 1024

	// MinChunkCapacity is the smallest capacity the builder accepts. A chunk
	// must be able to hold any single codepoint plus a "\r\n" pair.
	MinChunkCapacity = 8
)

// DefaultTargetFill returns how many bytes the builder puts in a fresh
// chunk of the given capacity, leaving the rest as gap for later edits.
func DefaultTargetFill(capacity int) int {
	return capacity * 3 / 4
}

// splitIntoChunks splits a string into pieces of at most capacity bytes,
// each close to target bytes.
func splitIntoChunks(s string, capacity, target int) []string {
	if len(s) == 0 {
		return nil
	}

	var chunks []string
	remaining := s

	for len(remaining) > 0 {
		if len(remaining) <= target {
			// Last chunk, take it all
			chunks = append(chunks, remaining)
			break
		}

		splitPoint := findChunkBoundary(remaining, target, capacity)
		chunks = append(chunks, remaining[:splitPoint])
		remaining = remaining[splitPoint:]
	}

	return chunks
}

// findChunkBoundary finds a split point near target that is never past
// limit, never inside a codepoint and never between '\r' and '\n'.
// It prefers splitting after a newline if one exists nearby.
func findChunkBoundary(s string, target, limit int) int {
	if target >= len(s) {
		return len(s)
	}
	if limit > len(s) {
		limit = len(s)
	}

	// Look for a newline near the target for a cleaner split
	window := target / 8
	searchStart := max(target-window, 1)
	searchEnd := min(target+window, limit)

	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	// No newline found, just ensure a boundary at or before the target
	pos := adjustSplitPoint(s, target)
	if pos > 0 {
		return pos
	}

	// Everything before the target is one unit; move forward instead
	pos = target
	for pos < limit && (!isUTF8Start(s[pos]) || s[pos-1] == '\r' && s[pos] == '\n') {
		pos++
	}
	return pos
}

// isUTF8Start returns true if the byte is the start of a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	// In UTF-8, continuation bytes start with 10xxxxxx (0x80-0xBF)
	// Start bytes are either ASCII (0x00-0x7F) or multi-byte starts (0xC0-0xFF)
	return b&0xC0 != 0x80
}

// ValidateUTF8 checks if a string is valid UTF-8 and returns the
// first invalid byte position, or -1 if valid. Surrogate halves and overlong
// encodings are invalid.
func ValidateUTF8(s string) int {
	for i := 0; i < len(s); {
		if s[i] < utf8.RuneSelf {
			// ASCII
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
