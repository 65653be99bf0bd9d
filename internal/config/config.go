package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kntng/crop/internal/engine/rope"
	"github.com/kntng/crop/internal/logging"
)

// Config holds every setting of the chunk tools.
type Config struct {
	Chunk ChunkConfig `toml:"chunk" yaml:"chunk"`
	Log   LogConfig   `toml:"log" yaml:"log"`
	Watch WatchConfig `toml:"watch" yaml:"watch"`
}

// ChunkConfig controls how text is cut into leaves.
type ChunkConfig struct {
	// Capacity is the fixed size in bytes of every leaf's gap buffer.
	Capacity int `toml:"capacity" yaml:"capacity"`
	// TargetFill is how many bytes a freshly built leaf holds, leaving the
	// rest as gap. Zero means three quarters of Capacity.
	TargetFill int `toml:"target_fill" yaml:"target_fill"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
}

// WatchConfig controls file watching.
type WatchConfig struct {
	// Debounce coalesces bursts of writes into one reload.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration is a time.Duration written as a string like "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Capacity:   rope.DefaultChunkCapacity,
			TargetFill: 0,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: Duration(100 * time.Millisecond),
		},
	}
}

// EffectiveTargetFill returns TargetFill, or the default fill for Capacity
// when it is unset.
func (c ChunkConfig) EffectiveTargetFill() int {
	if c.TargetFill == 0 {
		return rope.DefaultTargetFill(c.Capacity)
	}
	return c.TargetFill
}

// NewBuilder returns a leaf builder for these settings.
func (c ChunkConfig) NewBuilder() (*rope.Builder, error) {
	return rope.NewBuilder(c.Capacity, c.EffectiveTargetFill())
}

// LogLevel returns the parsed log level.
func (c LogConfig) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Level)
	return level
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Chunk.Capacity < rope.MinChunkCapacity || c.Chunk.Capacity > rope.MaxSegmentLen {
		errs = append(errs, &ValidationError{
			Path:    "chunk.capacity",
			Message: fmt.Sprintf("must be between %d and %d", rope.MinChunkCapacity, rope.MaxSegmentLen),
			Value:   c.Chunk.Capacity,
		})
	}
	if c.Chunk.TargetFill < 0 || c.Chunk.TargetFill > c.Chunk.Capacity {
		errs = append(errs, &ValidationError{
			Path:    "chunk.target_fill",
			Message: "must be between 0 and chunk.capacity",
			Value:   c.Chunk.TargetFill,
		})
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		errs = append(errs, &ValidationError{
			Path:    "log.level",
			Message: "must be one of debug, info, warn, error",
			Value:   c.Log.Level,
		})
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &ValidationError{
			Path:    "watch.debounce",
			Message: "must not be negative",
			Value:   c.Watch.Debounce.Std(),
		})
	}

	return errors.Join(errs...)
}
