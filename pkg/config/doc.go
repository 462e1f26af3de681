// Package config holds the immutable generation settings: entity counts,
// value ranges, chunking, seeding and output locations. Settings come from
// Default, optionally overlaid by a YAML/JSON file and SEEDGEN_* environment
// variables, and are checked eagerly by Validate before anything is written.
package config
