// Package file stores meshdrop settings in config.toml under the config
// directory (~/.meshdrop by default). MESHDROP_<TABLE>_<KEY> environment
// variables override file values without being written back.
package file
