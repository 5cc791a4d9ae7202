package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the size in bytes that triggers rotation (0 = never rotate)
	MaxSize int64
	// MaxBackups is the number of rotated files kept as Path.1 ... Path.N
	MaxBackups int
}

// sink is the file shared by a logger and all loggers derived from it
type sink struct {
	mu   sync.Mutex
	cfg  FileLoggerConfig
	file *os.File
	size int64
}

// FileLogger implements Logger by appending lines to a file
type FileLogger struct {
	sink   *sink
	fields Fields
	now    func() time.Time
}

// NewFileLogger opens (or creates) the log file in append mode
func NewFileLogger(cfg FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	s := &sink{cfg: cfg}
	if err := s.open(); err != nil {
		return nil, err
	}

	return &FileLogger{sink: s, now: time.Now}, nil
}

func (s *sink) open() error {
	file, err := os.OpenFile(s.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	s.file = file
	s.size = info.Size()
	return nil
}

// rotate shifts Path.N-1 -> Path.N ... Path -> Path.1 and reopens Path.
// Errors leave the current file in place.
func (s *sink) rotate() {
	if s.cfg.MaxBackups < 1 {
		return
	}
	s.file.Close()

	os.Remove(fmt.Sprintf("%s.%d", s.cfg.Path, s.cfg.MaxBackups))
	for i := s.cfg.MaxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", s.cfg.Path, i), fmt.Sprintf("%s.%d", s.cfg.Path, i+1))
	}
	os.Rename(s.cfg.Path, s.cfg.Path+".1")

	if err := s.open(); err != nil {
		s.file = nil
	}
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return
	}
	if s.cfg.MaxSize > 0 && s.size >= s.cfg.MaxSize {
		s.rotate()
		if s.file == nil {
			return
		}
	}

	n, _ := s.file.Write(line)
	s.size += int64(n)
}

func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger writing to the same file with extra fields
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{
		sink:   l.sink,
		fields: mergeFields(l.fields, fields),
		now:    l.now,
	}
}

// Close closes the underlying file; derived loggers become no-ops
func (l *FileLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.sink.cfg.Level {
		return
	}

	all := mergeFields(l.fields, fields)
	ts := l.now().UTC()

	var line []byte
	if l.sink.cfg.Format == FormatJSON {
		line = formatJSON(ts, level, msg, err, all)
	} else {
		line = formatText(ts, level, msg, err, all)
	}
	if line != nil {
		l.sink.write(line)
	}
}

func formatJSON(ts time.Time, level Level, msg string, err error, fields Fields) []byte {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["timestamp"] = ts.Format(time.RFC3339)
	entry["level"] = level.String()
	entry["message"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}

	data, jerr := json.Marshal(entry)
	if jerr != nil {
		return nil
	}
	return append(data, '\n')
}

func formatText(ts time.Time, level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", ts.Format("2006-01-02T15:04:05.000Z"), level, msg)
	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
