//go:build ropedebug

package rope

var debugAssertions = true
