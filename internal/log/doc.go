// Package log builds the slog loggers used by scholarscan.
//
// Crawls can be configured with per-site headers such as cookies or
// authorization tokens for intranet directories, and crawled URLs may carry
// session parameters. The RedactingHandler masks those values before they
// reach the log output:
//   - attributes whose key names a credential (cookie, authorization, token)
//   - values that look like credentials (bearer tokens, JWTs)
//   - passwords embedded in URLs and credential query parameters
//   - header maps passed as attribute values
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, false)
//	slog.SetDefault(logger)
//
//	logger.Info("fetching", "url", "https://intranet.example.edu/people?sid=abc")
//	// url=https://intranet.example.edu/people?sid=***REDACTED***
package log
