// Package config handles configuration loading for both binaries.
//
// Configuration is resolved once from environment variables into immutable
// structs. Values that fail to parse fall back to their defaults instead of
// aborting startup.
package config
