package config

import (
	"reflect"
	"testing"
)

func TestEnvLoader_Load(t *testing.T) {
	loader := NewEnvLoaderFrom(EnvPrefix, []string{
		"CHUNKDUMP_CHUNK_CAPACITY=4096",
		"CHUNKDUMP_CHUNK_TARGET_FILL=3000",
		"CHUNKDUMP_LOG_LEVEL=debug",
		"CHUNKDUMP_WATCH_DEBOUNCE=",
		"CHUNKDUMP_CONFIG=/etc/chunkdump.toml",
		"OTHER_CHUNK_CAPACITY=1",
		"malformed",
	})

	got, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]any{
		"chunk": map[string]any{"capacity": int64(4096), "target_fill": int64(3000)},
		"log":   map[string]any{"level": "debug"},
		"watch": map[string]any{"debounce": ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestEnvLoader_ProcessEnvironment(t *testing.T) {
	t.Setenv("CHUNKDUMP_LOG_LEVEL", "warn")

	got, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatal(err)
	}
	log, ok := got["log"].(map[string]any)
	if !ok || log["level"] != "warn" {
		t.Errorf("Load() = %v", got)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"42", int64(42)},
		{"-1", int64(-1)},
		{"true", true},
		{"FALSE", false},
		{"250ms", "250ms"},
		{"debug", "debug"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}
