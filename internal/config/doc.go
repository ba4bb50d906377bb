// Package config provides configuration structures and utilities for the
// law crawler. It defines the crawl knobs (pacing, retries, timeouts),
// snapshot and archive locations, report preferences, and a layered loader
// that applies defaults, the YAML config file, .env, and environment
// variables in that order.
package config
