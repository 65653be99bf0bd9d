package config

import (
	"errors"
	"testing"
	"time"

	"github.com/kntng/crop/internal/engine/rope"
	"github.com/kntng/crop/internal/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Chunk.Capacity != rope.DefaultChunkCapacity {
		t.Errorf("Capacity = %d, want %d", cfg.Chunk.Capacity, rope.DefaultChunkCapacity)
	}
	if got := cfg.Chunk.EffectiveTargetFill(); got != rope.DefaultTargetFill(rope.DefaultChunkCapacity) {
		t.Errorf("EffectiveTargetFill() = %d", got)
	}
	if cfg.Log.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel() = %v, want INFO", cfg.Log.LogLevel())
	}
	if cfg.Watch.Debounce.Std() != 100*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce.Std())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"capacity too small", func(c *Config) { c.Chunk.Capacity = rope.MinChunkCapacity - 1 }, "chunk.capacity"},
		{"capacity too large", func(c *Config) { c.Chunk.Capacity = rope.MaxSegmentLen + 1 }, "chunk.capacity"},
		{"negative fill", func(c *Config) { c.Chunk.TargetFill = -1 }, "chunk.target_fill"},
		{"fill over capacity", func(c *Config) { c.Chunk.TargetFill = c.Chunk.Capacity + 1 }, "chunk.target_fill"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("Validate() = %v, want failure at %s", err, tt.path)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Chunk.Capacity = 1
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("Validate() = %v, want two joined errors", err)
	}
}

func TestChunkConfigNewBuilder(t *testing.T) {
	b, err := ChunkConfig{Capacity: 64, TargetFill: 32}.NewBuilder()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.WriteString("hello\nworld\n"); err != nil {
		t.Fatal(err)
	}
	leaves, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	defer leaves.Release()
	if len(leaves) != 1 || leaves[0].Cap() != 64 {
		t.Errorf("got %d leaves", len(leaves))
	}

	if _, err := (ChunkConfig{Capacity: 2}).NewBuilder(); !errors.Is(err, rope.ErrInvalidCapacity) {
		t.Errorf("err = %v, want ErrInvalidCapacity", err)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("Std() = %v", d.Std())
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q", text)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected an error")
	}
}
