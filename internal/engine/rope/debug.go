//go:build !ropedebug

package rope

// debugAssertions enables the cross-checks that are too expensive for the
// hot path: caller-supplied summaries are recomputed and metric offsets are
// range-checked. Build with -tags ropedebug to turn them on.
var debugAssertions = false
