package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kntng/crop/internal/config"
	"github.com/kntng/crop/internal/engine/rope"
	"github.com/kntng/crop/internal/logging"
)

// splitArg is a parsed -split argument such as "line:3".
type splitArg struct {
	metric string
	offset int
}

func (s splitArg) String() string {
	return fmt.Sprintf("%s:%d", s.metric, s.offset)
}

// parseSplit parses "metric:offset", metric being byte, char, utf16 or line.
func parseSplit(arg string) (splitArg, error) {
	metric, offsetStr, ok := strings.Cut(arg, ":")
	if !ok {
		return splitArg{}, fmt.Errorf("invalid split %q: want metric:offset", arg)
	}
	switch metric {
	case "byte", "char", "utf16", "line":
	default:
		return splitArg{}, fmt.Errorf("invalid split metric %q (must be byte, char, utf16, or line)", metric)
	}
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return splitArg{}, fmt.Errorf("invalid split offset %q", offsetStr)
	}
	return splitArg{metric: metric, offset: offset}, nil
}

// split splits the leaves, turning a contract violation into an error.
func (s splitArg) split(leaves rope.Leaves) (left, right rope.Pieces, err error) {
	defer func() {
		err = recoveredError(recover(), err)
	}()

	switch s.metric {
	case "byte":
		left, right = rope.SplitLeavesAt(leaves, rope.ByteMetric(s.offset))
	case "char":
		left, right = rope.SplitLeavesAt(leaves, rope.CharMetric(s.offset))
	case "utf16":
		left, right = rope.SplitLeavesAt(leaves, rope.UTF16Metric(s.offset))
	case "line":
		left, right = rope.SplitLeavesAt(leaves, rope.RawLineMetric(s.offset))
	}
	return left, right, nil
}

// recoveredError returns the error a rope operation panicked with, or err.
// Panics that are not errors are re-raised.
func recoveredError(r any, err error) error {
	if r == nil {
		return err
	}
	if e, ok := r.(error); ok {
		return e
	}
	panic(r)
}

// checkInvariants runs the leaf invariant checker over every leaf.
func checkInvariants(leaves rope.Leaves) (err error) {
	defer func() {
		err = recoveredError(recover(), err)
	}()
	for _, leaf := range leaves {
		leaf.AsSlice().AssertInvariants()
	}
	return nil
}

// dumper chunks files and renders their leaves.
type dumper struct {
	chunk  config.ChunkConfig
	split  *splitArg
	out    io.Writer
	logger *logging.Logger
}

// dumpFile renders the file at path.
func (d *dumper) dumpFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return d.dump(path, f)
}

// dump chunks everything r yields and renders it under the given name.
func (d *dumper) dump(name string, r io.Reader) error {
	b, err := d.chunk.NewBuilder()
	if err != nil {
		return err
	}
	if _, err := b.ReadFrom(r); err != nil {
		b.Reset()
		return fmt.Errorf("reading %s: %w", name, err)
	}
	leaves, err := b.Build()
	if err != nil {
		return fmt.Errorf("chunking %s: %w", name, err)
	}
	defer leaves.Release()

	d.logger.WithField("file", name).Debug("built %d leaves", len(leaves))

	if err := checkInvariants(leaves); err != nil {
		return fmt.Errorf("checking %s: %w", name, err)
	}

	summary := leaves.Summarize()
	fmt.Fprintf(d.out, "%s: %d leaves of capacity %d\n", name, len(leaves), d.chunk.Capacity)
	fmt.Fprintf(d.out, "summary: %s\n", summary)
	for i, leaf := range leaves {
		s := leaf.AsSlice()
		fmt.Fprintf(d.out, "leaf %d: %#v %s\n", i, s, s.Summarize())
	}

	if d.split == nil {
		return nil
	}

	left, right, err := d.split.split(leaves)
	if err != nil {
		return fmt.Errorf("splitting %s at %s: %w", name, d.split, err)
	}
	fmt.Fprintf(d.out, "split at %s\n", d.split)
	writePieces(d.out, "left", left)
	writePieces(d.out, "right", right)
	return nil
}

func writePieces(w io.Writer, side string, pieces rope.Pieces) {
	fmt.Fprintf(w, "%s: %d pieces %s\n", side, len(pieces), pieces.Summarize())
	for _, p := range pieces {
		fmt.Fprintf(w, "  %#v %s\n", p.Slice, p.Summary)
	}
}
