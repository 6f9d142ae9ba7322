package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uniclear/clearance/pkg/audit"
	"github.com/uniclear/clearance/pkg/config"
	"github.com/uniclear/clearance/pkg/credential"
	"github.com/uniclear/clearance/pkg/logging"
	"github.com/uniclear/clearance/pkg/soap"
	"github.com/uniclear/clearance/pkg/status"
	"github.com/uniclear/clearance/pkg/value"
)

// Client runs the full request/response cycle for one session: expiry
// check, envelope build, structural validation, transport, parse and audit.
// A Client is safe for concurrent use.
type Client struct {
	cred      credential.Credential
	ttl       time.Duration
	transport Transport
	endpoint  string
	builder   *soap.Builder
	parser    *soap.Parser
	logger    *slog.Logger
	auditLog  audit.AuditLogger
	auditCfg  *audit.AuditConfig
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the operator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithSessionTTL sets the session lifetime. Zero means credential.DefaultTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithClock sets the time source for expiry checks, timestamps and audit
// durations.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithAudit records every call to logger, filtered by cfg.
func WithAudit(logger audit.AuditLogger, cfg *audit.AuditConfig) Option {
	return func(c *Client) {
		c.auditLog = logger
		c.auditCfg = cfg
	}
}

// WithEndpoint names the endpoint in audit entries.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// New creates a Client for cred over transport.
func New(cred credential.Credential, transport Transport, opts ...Option) (*Client, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, errors.New("client: transport is required")
	}

	c := &Client{
		cred:      cred,
		transport: transport,
		logger:    logging.Nop(),
		auditLog:  &audit.NoOpLogger{},
		auditCfg:  audit.DefaultAuditConfig(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if c.auditLog == nil || c.auditCfg == nil {
		c.auditLog, c.auditCfg = &audit.NoOpLogger{}, audit.DefaultAuditConfig()
	}

	c.builder = soap.NewBuilder(soap.WithClock(c.now), soap.WithBuilderLogger(c.logger))
	c.parser = soap.NewParser(soap.WithParserClock(c.now), soap.WithParserLogger(c.logger))
	return c, nil
}

// FromConfig creates a Client with an HTTP transport and audit trail
// described by cfg. Close releases the audit trail.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.RequireBaseURL(); err != nil {
		return nil, err
	}
	cred, err := cfg.Credential()
	if err != nil {
		return nil, err
	}

	transport := NewHTTPTransport(cfg.BaseURL, cfg.Timeout)
	if logger != nil {
		transport.Logger = logger
	}

	c, err := New(cred, transport,
		WithLogger(logger),
		WithSessionTTL(cfg.SessionTTL),
		WithEndpoint(cfg.BaseURL),
	)
	if err != nil {
		return nil, err
	}

	// The audit file is opened last so no error path leaves it open.
	auditCfg := cfg.Audit
	auditLog, err := audit.NewLogger(&auditCfg)
	if err != nil {
		return nil, fmt.Errorf("client: audit: %w", err)
	}
	WithAudit(auditLog, &auditCfg)(c)
	return c, nil
}

// Credential returns the session credential.
func (c *Client) Credential() credential.Credential { return c.cred }

// Close releases the audit trail.
func (c *Client) Close() error {
	return c.auditLog.Close()
}

// Call performs op with params and returns the parsed response.
//
// A response is returned for every status code the authority sends; use
// CheckStatus to turn a non-success code into an error. Errors from earlier
// stages are *CallError values naming the stage.
func (c *Client) Call(ctx context.Context, op string, params value.Value) (*soap.Response, error) {
	start := c.now()
	rec := &callRecord{op: op, start: start}
	resp, err := c.call(ctx, rec, params)
	c.record(rec, resp, err)
	return resp, err
}

// callRecord collects what the audit entry needs as the call progresses.
type callRecord struct {
	op       string
	start    time.Time
	request  string
	response string
}

func (c *Client) call(ctx context.Context, rec *callRecord, params value.Value) (*soap.Response, error) {
	logger := c.logger.With("operation", rec.op, "user", c.cred.Username())

	if err := c.cred.CheckExpiry(c.now(), c.ttl); err != nil {
		return nil, &CallError{Operation: rec.op, Stage: StageAuth, Err: err}
	}

	envelope, err := c.builder.BuildOperation(c.cred, rec.op, params)
	if err != nil {
		return nil, &CallError{Operation: rec.op, Stage: StageBuild, Err: err}
	}
	rec.request = envelope

	if err := validateRequest(envelope); err != nil {
		return nil, &CallError{Operation: rec.op, Stage: StageValidate, Err: err}
	}

	logger.Debug("sending request", "bytes", len(envelope))
	raw, err := c.transport.Send(ctx, envelope)
	if err != nil {
		return nil, &CallError{Operation: rec.op, Stage: StageTransport, Err: err}
	}
	rec.response = raw

	v := soap.NewValidator()
	if ok, errs := v.ValidateResponseSection(raw); !ok {
		logger.Warn("response failed structural checks", "errors", errs)
	}

	resp, err := c.parser.Parse(raw)
	if err != nil {
		return nil, &CallError{Operation: rec.op, Stage: StageParse, Err: err}
	}

	logger.Info("call completed",
		"status", resp.StatusCode,
		"success", resp.IsSuccess(),
		"duration", c.now().Sub(rec.start))
	return resp, nil
}

// validateRequest runs every request-side structural check and reports all
// failures together.
func validateRequest(envelope string) error {
	v := soap.NewValidator()
	var errs []string
	for _, check := range []func(string) (bool, []string){
		v.ValidateEnvelope,
		v.ValidateAuthSection,
		v.ValidateParameterSection,
	} {
		if ok, e := check(envelope); !ok {
			errs = append(errs, e...)
		}
	}
	if len(errs) > 0 {
		return &soap.ValidationError{Errors: errs}
	}
	return nil
}

// record writes the audit entry. Audit failures are logged and never fail
// the call.
func (c *Client) record(rec *callRecord, resp *soap.Response, callErr error) {
	event := audit.EventCallCompleted
	switch {
	case callErr != nil:
		event = audit.EventCallFailed
	case !resp.IsSuccess():
		event = audit.EventCallRejected
	}
	if !c.auditCfg.ShouldLog(audit.EventLevel(event)) {
		return
	}

	token := c.cred.SessionToken()
	entry := audit.NewAuditEntry(event, "").
		WithCall(&audit.CallInfo{
			Operation:   rec.op,
			Endpoint:    c.endpoint,
			Username:    c.cred.Username(),
			Fingerprint: c.cred.Fingerprint(),
		}).
		WithDuration(c.now().Sub(rec.start))
	entry.Timestamp = rec.start.UTC()

	if rec.request != "" {
		entry.WithRequest(c.auditCfg.Payload(rec.request, token))
	}
	if rec.response != "" {
		entry.WithResponse(c.auditCfg.Payload(rec.response, token))
	}
	if resp != nil {
		st := resp.Status()
		cats := st.Categories()
		names := make([]string, len(cats))
		for i, cat := range cats {
			names[i] = string(cat)
		}
		entry.WithStatus(&audit.StatusInfo{
			Code:        resp.StatusCode,
			Description: resp.StatusDescription,
			IndexID:     resp.IndexID,
			Categories:  names,
		})
	}
	if stage, ok := StageOf(callErr); ok {
		entry.WithError(string(stage), callErr)
	}

	if err := c.auditLog.Log(*entry); err != nil {
		c.logger.Warn("failed to write audit entry", "call_id", entry.CallID, "error", err)
	}
}

// CheckStatus returns a *StatusError when resp carries a non-success code.
func CheckStatus(op string, resp *soap.Response) error {
	if resp == nil || status.IsSuccess(resp.StatusCode) {
		return nil
	}
	return &StatusError{
		Operation:   op,
		IndexID:     resp.IndexID,
		Code:        resp.StatusCode,
		Description: resp.StatusDescription,
	}
}
