package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits of log files.
const (
	// LogFileMaxSize is the size in megabytes at which a log file rotates.
	LogFileMaxSize = 50

	// LogFileMaxBackups is the number of rotated files kept.
	LogFileMaxBackups = 5

	// LogFileMaxAge is the number of days a rotated file is kept.
	LogFileMaxAge = 30
)

// OpenLogFile returns a size-rotated writer appending to path. Rotated
// files are gzip-compressed. The caller closes the writer.
func OpenLogFile(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    LogFileMaxSize,
		MaxBackups: LogFileMaxBackups,
		MaxAge:     LogFileMaxAge,
		Compress:   true,
	}, nil
}

// NewLoggerWithFile returns a logger like NewLogger whose output also goes
// to the rotated log file at path. An empty path writes to w only. The
// returned closer must be closed when logging ends.
func NewLoggerWithFile(w io.Writer, path string, verbose, json bool) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return NewLogger(w, verbose, json), nopCloser{}, nil
	}
	file, err := OpenLogFile(path)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(io.MultiWriter(w, file), verbose, json), file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
