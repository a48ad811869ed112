package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newTestLogger creates a file logger writing to a fresh temp directory
func newTestLogger(t *testing.T, config FileLoggerConfig) (*ZapLogger, string) {
	t.Helper()

	if config.Path == "" {
		config.Path = filepath.Join(t.TempDir(), "dirtective.log")
	}
	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, config.Path
}

// readEntries decodes one JSON object per line of path
func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer file.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	return entries
}

// ============== NewFileLogger Tests ==============

func TestNewFileLogger(t *testing.T) {
	t.Run("Creates file before first entry", func(t *testing.T) {
		logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})
		defer logger.Close()

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("log file missing: %v", err)
		}
		if info.Size() != 0 {
			t.Errorf("new log should be empty, has %d bytes", info.Size())
		}
	})

	t.Run("Creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state", "logs", "run.log")
		logger, _ := newTestLogger(t, FileLoggerConfig{Path: path, Format: FormatJSON})
		defer logger.Close()

		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			t.Errorf("log directory missing: %v", err)
		}
	})

	t.Run("Parent is a file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}

		_, err := NewFileLogger(FileLoggerConfig{Path: filepath.Join(blocker, "run.log")})
		if err == nil {
			t.Error("expected an error when the directory cannot be created")
		}
	})
}

// ============== Level Tests ==============

func TestFileLogger_Levels(t *testing.T) {
	tests := []struct {
		level    Level
		expected []string
	}{
		{DebugLevel, []string{"group listed", "group decided", "tie found", "delete failed"}},
		{InfoLevel, []string{"group decided", "tie found", "delete failed"}},
		{WarnLevel, []string{"tie found", "delete failed"}},
		{ErrorLevel, []string{"delete failed"}},
	}

	for _, tt := range tests {
		t.Run(LevelString(tt.level), func(t *testing.T) {
			logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: tt.level})

			ctx := context.Background()
			logger.Debug(ctx, "group listed", nil)
			logger.Info(ctx, "group decided", nil)
			logger.Warn(ctx, "tie found", nil)
			logger.Error(ctx, "delete failed", errors.New("permission denied"), nil)
			logger.Close()

			entries := readEntries(t, path)
			if len(entries) != len(tt.expected) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.expected))
			}
			for i, msg := range tt.expected {
				if entries[i]["message"] != msg {
					t.Errorf("entry %d = %v, want %q", i, entries[i]["message"], msg)
				}
			}
		})
	}
}

// ============== Format Tests ==============

func TestFileLogger_JSONEntry(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})

	logger.Error(context.Background(), "Failed to remove file", errors.New("read-only file system"), Fields{
		"group": 3,
		"path":  "/data/b/report.pdf",
	})
	logger.Close()

	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]

	checks := map[string]interface{}{
		"level":   "ERROR",
		"message": "Failed to remove file",
		"error":   "read-only file system",
		"path":    "/data/b/report.pdf",
		"group":   float64(3),
	}
	for key, want := range checks {
		if entry[key] != want {
			t.Errorf("%s = %v, want %v", key, entry[key], want)
		}
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestFileLogger_TextEntry(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})

	logger.Info(context.Background(), "Group resolved", Fields{"group": 1, "action": "keep-all"})
	logger.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	columns := strings.Split(strings.TrimSpace(string(content)), "\t")
	if len(columns) != 4 {
		t.Fatalf("expected timestamp, level, message and fields columns, got %q", content)
	}
	if columns[1] != "INFO" || columns[2] != "Group resolved" {
		t.Errorf("unexpected level or message: %q", columns[1:3])
	}
	// Fields are written in key order
	if !strings.HasPrefix(columns[3], `{"action": "keep-all", "group": 1`) {
		t.Errorf("fields column = %q", columns[3])
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})

	runLogger := logger.WithFields(Fields{"run": "b7d1"})
	runLogger.Info(context.Background(), "Group resolved", Fields{"group": 2})
	logger.Info(context.Background(), "Drain finished", nil)

	// The derived logger shares the writer, closing it closes the file
	if err := runLogger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["run"] != "b7d1" || entries[0]["group"] != float64(2) {
		t.Errorf("derived entry fields = %v", entries[0])
	}
	if _, ok := entries[1]["run"]; ok {
		t.Error("base logger must not inherit derived fields")
	}
}

// ============== Rotation Tests ==============

func TestFileLogger_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dirtective.log")
	logger, _ := newTestLogger(t, FileLoggerConfig{
		Path:       path,
		Format:     FormatJSON,
		Level:      InfoLevel,
		MaxSizeMB:  1,
		MaxBackups: 2,
	})

	// About 1.5 MB of entries
	payload := strings.Repeat("x", 1024)
	ctx := context.Background()
	for i := 0; i < 1500; i++ {
		logger.Info(ctx, "Group resolved", Fields{"group": i, "payload": payload})
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}

	backups := 0
	for _, f := range files {
		if f.Name() != "dirtective.log" && strings.HasPrefix(f.Name(), "dirtective-") {
			backups++
		}
	}
	if backups == 0 {
		t.Errorf("expected a rotated backup, found %v", files)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("current log missing: %v", err)
	}
	if info.Size() > 1024*1024 {
		t.Errorf("current log is %d bytes, should have rotated at 1 MB", info.Size())
	}
}

func TestFileLogger_AppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirtective.log")
	ctx := context.Background()

	for run := 0; run < 3; run++ {
		logger, _ := newTestLogger(t, FileLoggerConfig{Path: path, Format: FormatJSON, MaxSizeMB: 1})
		logger.Info(ctx, "Drain started", Fields{"run": run})
		logger.Close()
	}

	entries := readEntries(t, path)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[2]["run"] != float64(2) {
		t.Errorf("last entry run = %v, want 2", entries[2]["run"])
	}
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})
	ctx := context.Background()

	// One goroutine per listed directory, as the scanner does
	var wg sync.WaitGroup
	for source := 0; source < 4; source++ {
		wg.Add(1)
		go func(source int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				logger.Debug(ctx, "ignored", nil)
				logger.Info(ctx, "Entry listed", Fields{"source": source, "index": i})
			}
		}(source)
	}
	wg.Wait()
	logger.Close()

	if entries := readEntries(t, path); len(entries) != 200 {
		t.Errorf("got %d entries, want 200", len(entries))
	}
}

// ============== Null Logger Tests ==============

func TestNullLogger(t *testing.T) {
	var logger Logger = NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", Fields{"k": 1})
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", errors.New("boom"), nil)

	derived := logger.WithFields(Fields{"run": "x"})
	if derived == nil {
		t.Fatal("WithFields() returned nil")
	}
	for _, l := range []Logger{derived, logger} {
		if err := l.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}
}

// ============== Level Parsing Tests ==============

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"DEBUG":   DebugLevel,
		"info":    InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"WARNING": WarnLevel,
		"error":   ErrorLevel,
		"ERROR":   ErrorLevel,
		"verbose": InfoLevel,
		"":        InfoLevel,
	}

	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLevelString_RoundTrip(t *testing.T) {
	for _, level := range []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel} {
		if got := ParseLevel(LevelString(level)); got != level {
			t.Errorf("ParseLevel(LevelString(%v)) = %v", level, got)
		}
	}
	if LevelString(Level(42)) != "UNKNOWN" {
		t.Errorf("LevelString(42) = %q, want UNKNOWN", LevelString(Level(42)))
	}
}
