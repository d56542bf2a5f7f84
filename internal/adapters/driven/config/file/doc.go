// Package file loads and saves the TOML configuration at
// ~/.docuchat/config.toml. Missing files and missing keys fall back to
// defaults; the file is written with 0600 permissions because it may hold
// an embedding provider API key.
package file
