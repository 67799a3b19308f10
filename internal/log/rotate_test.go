package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWithFile(t *testing.T) {
	t.Parallel()

	t.Run("writes to both outputs", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "logs", "scholarscan.log")
		var buf bytes.Buffer
		logger, closer, err := NewLoggerWithFile(&buf, path, false, false)
		if err != nil {
			t.Fatalf("NewLoggerWithFile() error = %v", err)
		}
		logger.Info("crawl started", "cookie", "session=abc")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		for _, out := range []string{buf.String(), string(content)} {
			if !strings.Contains(out, "crawl started") {
				t.Errorf("missing message in %q", out)
			}
			if strings.Contains(out, "session=abc") {
				t.Errorf("cookie leaked into %q", out)
			}
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, closer, err := NewLoggerWithFile(&buf, "", true, true)
		if err != nil {
			t.Fatalf("NewLoggerWithFile() error = %v", err)
		}
		logger.Debug("debug line")
		if err := closer.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"msg":"debug line"`) {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}
