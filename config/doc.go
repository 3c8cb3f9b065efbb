// Package config handles application configuration loading and
// validation. Configuration is loaded from a YAML file and validated
// using struct tags; per-city entries name the feed, its format and the
// static reference dataset.
package config
