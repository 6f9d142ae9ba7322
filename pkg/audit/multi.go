package audit

import (
	"errors"
	"sync"
)

// MultiWriter fans audit entries out to several loggers. Every logger
// receives the entry even if an earlier one fails.
type MultiWriter struct {
	mu      sync.RWMutex
	writers []AuditLogger
}

// NewMultiWriter creates a MultiWriter. Nil writers are skipped.
func NewMultiWriter(writers ...AuditLogger) *MultiWriter {
	valid := make([]AuditLogger, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			valid = append(valid, w)
		}
	}
	return &MultiWriter{writers: valid}
}

// Log writes entry to every writer and joins their errors.
func (m *MultiWriter) Log(entry AuditEntry) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs []error
	for _, w := range m.writers {
		if err := w.Log(entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every writer and joins their errors.
func (m *MultiWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add appends a writer. It is safe to call concurrently with Log.
func (m *MultiWriter) Add(w AuditLogger) {
	if w == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writers = append(m.writers, w)
}

// Len returns the number of writers.
func (m *MultiWriter) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.writers)
}

var _ AuditLogger = (*MultiWriter)(nil)
