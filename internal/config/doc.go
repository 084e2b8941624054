// Package config defines the settings of the world clock server and client
// and provides helpers to load, validate and save them in YAML format.
//
// Besides network addresses it carries the frame rate, the canvas size, the
// zone shown on startup and any zones registered on top of the built-in set.
package config
