// Package config loads the settings of the chunk tools.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. built-in defaults (Default)
//  2. a TOML or YAML file, the format chosen by its extension
//  3. CHUNKDUMP_ environment variables, e.g. CHUNKDUMP_CHUNK_CAPACITY=4096
//
// The file and environment layers are parsed into generic maps and deep
// merged before being decoded into a Config, so an environment variable can
// override a single key of a file section.
//
// Example file:
//
//	[chunk]
//	capacity = 2048
//	target_fill = 1500
//
//	[log]
//	level = "debug"
//
//	[watch]
//	debounce = "250ms"
package config
