// Package main provides the entry point for the scholarscan CLI.
//
// scholarscan crawls university websites, finds faculty profile pages and
// stores structured profiles (rank, PhD year and school, promotion year)
// in a local SQLite database.
//
// Usage:
//
//	scholarscan crawl --seeds universities.csv
//	scholarscan profiles --markdown
//
// See --help for all available options.
package main

func main() {
	Execute()
}
