package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// AuditLogger defines the interface for audit logging implementations.
type AuditLogger interface {
	// Log records an audit entry. Implementations must be thread-safe.
	Log(entry AuditEntry) error

	// Close releases any resources held by the logger.
	Close() error
}

// ErrClosed is returned by Log after Close.
var ErrClosed = errors.New("audit: logger is closed")

// NoOpLogger is an AuditLogger that discards all entries.
// Use this when audit logging is disabled.
type NoOpLogger struct{}

// Log discards the entry. Always returns nil.
func (l *NoOpLogger) Log(_ AuditEntry) error {
	return nil
}

// Close is a no-op. Always returns nil.
func (l *NoOpLogger) Close() error {
	return nil
}

var _ AuditLogger = (*NoOpLogger)(nil)

// WriterLogger writes audit entries as JSON lines to an io.Writer and
// numbers them in write order.
type WriterLogger struct {
	mu       sync.Mutex
	encoder  *json.Encoder
	sequence int64
	closed   bool
}

// NewWriterLogger creates a WriterLogger on w. Close does not close w.
func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{encoder: json.NewEncoder(w)}
}

// Log writes an audit entry as a JSON line.
// The entry's Sequence field is set automatically.
func (l *WriterLogger) Log(entry AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	l.sequence++
	entry.Sequence = l.sequence

	if err := l.encoder.Encode(entry); err != nil {
		return fmt.Errorf("audit: failed to encode entry: %w", err)
	}
	return nil
}

// Close stops further writes.
func (l *WriterLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

var _ AuditLogger = (*WriterLogger)(nil)

// NewStdoutLogger creates a WriterLogger on stdout.
func NewStdoutLogger() *WriterLogger {
	return NewWriterLogger(os.Stdout)
}

// FileLogger writes audit entries as JSON lines to a file.
type FileLogger struct {
	*WriterLogger
	file *os.File
}

// NewFileLogger creates a new FileLogger that writes to the specified path.
// The file is created if it doesn't exist, or appended to if it does.
func NewFileLogger(path string) (*FileLogger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to open log file: %w", err)
	}

	return &FileLogger{
		WriterLogger: NewWriterLogger(file),
		file:         file,
	}, nil
}

// Close flushes and closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	syncErr := l.file.Sync()
	return errors.Join(syncErr, l.file.Close())
}

var _ AuditLogger = (*FileLogger)(nil)

// NewLogger creates an appropriate AuditLogger based on the configuration.
// Returns a NoOpLogger if audit logging is disabled. When both a file and
// stdout are configured it returns a MultiWriter over both.
func NewLogger(config *AuditConfig) (AuditLogger, error) {
	if config == nil || !config.Enabled {
		return &NoOpLogger{}, nil
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.OutputFile == "" {
		return NewStdoutLogger(), nil
	}

	fileLogger, err := NewFileLogger(config.OutputFile)
	if err != nil {
		return nil, err
	}
	if !config.Stdout {
		return fileLogger, nil
	}
	return NewMultiWriter(fileLogger, NewStdoutLogger()), nil
}
