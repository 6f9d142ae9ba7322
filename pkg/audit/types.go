package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event constants define the types of events that can be logged.
const (
	EventCallCompleted = "call.completed"
	EventCallRejected  = "call.rejected"
	EventCallFailed    = "call.failed"
)

// eventLevels maps events to the level ShouldLog compares against.
var eventLevels = map[string]string{
	EventCallCompleted: LevelInfo,
	EventCallRejected:  LevelWarn,
	EventCallFailed:    LevelError,
}

// EventLevel returns the severity of event, or LevelInfo for unknown events.
func EventLevel(event string) string {
	if level, ok := eventLevels[event]; ok {
		return level
	}
	return LevelInfo
}

// AuditEntry represents one remote call: what was sent, what came back and
// how the status classified.
type AuditEntry struct {
	// Sequence is a monotonically increasing sequence number set by the
	// writer.
	Sequence int64 `json:"sequence"`

	// Timestamp is when the call started.
	Timestamp time.Time `json:"timestamp"`

	// CallID correlates the entry with client log lines for the same call.
	CallID string `json:"callId"`

	// Event is the outcome: completed, rejected by the authority, or failed
	// locally or in transport.
	Event string `json:"event"`

	// Call identifies the operation and the session that made it.
	Call *CallInfo `json:"call,omitempty"`

	// Request is the envelope that was sent.
	Request *PayloadInfo `json:"request,omitempty"`

	// Response is the raw reply.
	Response *PayloadInfo `json:"response,omitempty"`

	// Status is the parsed canonical record, when parsing succeeded.
	Status *StatusInfo `json:"status,omitempty"`

	// Error describes why the call failed.
	Error *ErrorInfo `json:"error,omitempty"`

	// DurationMs is the wall time of the call in milliseconds.
	DurationMs int64 `json:"durationMs"`
}

// CallInfo identifies a call.
type CallInfo struct {
	Operation string `json:"operation"`
	Endpoint  string `json:"endpoint,omitempty"`

	// Username and Fingerprint identify the session without its token.
	Username    string `json:"username"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// PayloadInfo captures an XML body.
type PayloadInfo struct {
	// Size is the full body size in bytes.
	Size int `json:"size"`

	// Preview is the redacted, truncated body. Empty when previews are
	// disabled.
	Preview string `json:"preview,omitempty"`
}

// StatusInfo captures the canonical record of a parsed response.
type StatusInfo struct {
	Code        int      `json:"code"`
	Description string   `json:"description,omitempty"`
	IndexID     string   `json:"indexId,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// ErrorInfo captures details about an error that occurred.
type ErrorInfo struct {
	// Kind is a machine-readable error class, e.g. "build" or "transport".
	Kind string `json:"kind,omitempty"`

	// Message is a human-readable error description.
	Message string `json:"message"`
}

// NewCallID returns a random identifier for a call.
func NewCallID() string {
	return uuid.NewString()
}

// NewAuditEntry creates a new AuditEntry with the current timestamp. An
// empty callID is replaced by NewCallID.
func NewAuditEntry(event string, callID string) *AuditEntry {
	if callID == "" {
		callID = NewCallID()
	}
	return &AuditEntry{
		Timestamp: time.Now().UTC(),
		CallID:    callID,
		Event:     event,
	}
}

// WithCall adds call information to the audit entry.
func (e *AuditEntry) WithCall(call *CallInfo) *AuditEntry {
	e.Call = call
	return e
}

// WithRequest adds request payload information to the audit entry.
func (e *AuditEntry) WithRequest(req *PayloadInfo) *AuditEntry {
	e.Request = req
	return e
}

// WithResponse adds response payload information to the audit entry.
func (e *AuditEntry) WithResponse(resp *PayloadInfo) *AuditEntry {
	e.Response = resp
	return e
}

// WithStatus adds the parsed status to the audit entry.
func (e *AuditEntry) WithStatus(st *StatusInfo) *AuditEntry {
	e.Status = st
	return e
}

// WithError records err under kind. A nil err leaves the entry unchanged.
func (e *AuditEntry) WithError(kind string, err error) *AuditEntry {
	if err == nil {
		return e
	}
	e.Error = &ErrorInfo{Kind: kind, Message: err.Error()}
	return e
}

// WithDuration sets DurationMs from d.
func (e *AuditEntry) WithDuration(d time.Duration) *AuditEntry {
	e.DurationMs = d.Milliseconds()
	return e
}
