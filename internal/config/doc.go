// Package config provides configuration structures and utilities for
// scholarscan. It defines the crawl, classification and storage options,
// the optional YAML configuration file and the CSV seed list loader.
package config
