package testing

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/uniclear/clearance/pkg/status"
	"github.com/uniclear/clearance/pkg/value"
)

// reply is one registered answer. Matching fields are compared against the
// request; the rest shape the response.
type reply struct {
	operation string
	indexID   string
	params    map[string]string

	statusCode  int
	description string
	data        value.Value
	httpStatus  int
	rawBody     string
	delay       time.Duration
	times       int // 0 means unlimited
	used        int
}

// take reports whether r answers log, consuming one use when it does.
// Callers hold the authority lock.
func (r *reply) take(log RequestLog) bool {
	if r.operation != "" && !strings.EqualFold(r.operation, log.Operation) {
		return false
	}
	if r.indexID != "" && r.indexID != log.IndexID {
		return false
	}
	for k, want := range r.params {
		if log.Param(k) != want {
			return false
		}
	}
	if r.times > 0 && r.used >= r.times {
		return false
	}
	r.used++
	return true
}

// ReplyBuilder configures a reply using a fluent API.
type ReplyBuilder struct {
	authority *Authority
	reply     *reply
	err       error // First error encountered during building
}

// setError records the first error encountered during building.
func (b *ReplyBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *ReplyBuilder) Err() error {
	return b.err
}

// ForIndex matches only requests for this index number. The reply echoes it.
func (b *ReplyBuilder) ForIndex(indexID string) *ReplyBuilder {
	b.reply.indexID = indexID
	return b
}

// WithParam matches only requests whose RequestParameters/key has this text.
// Nested keys use slashes ("Applicant/Surname").
func (b *ReplyBuilder) WithParam(key, text string) *ReplyBuilder {
	b.reply.params[key] = text
	return b
}

// WithStatus sets the status code and description. An empty description
// uses the registry message.
func (b *ReplyBuilder) WithStatus(code int, description string) *ReplyBuilder {
	if description == "" {
		description = status.Message(code)
	}
	b.reply.statusCode = code
	b.reply.description = description
	return b
}

// WithField adds a response field.
func (b *ReplyBuilder) WithField(key, text string) *ReplyBuilder {
	return b.WithValue(key, value.Scalar(text))
}

// WithValue adds a response field holding any value tree.
func (b *ReplyBuilder) WithValue(key string, v value.Value) *ReplyBuilder {
	m := b.reply.data.Map()
	if m == nil {
		m = value.NewMap()
	} else {
		m = m.Clone()
	}
	b.reply.data = value.FromMap(m.Set(key, v))
	return b
}

// WithHTTPStatus answers with a non-2xx HTTP status instead of an envelope.
func (b *ReplyBuilder) WithHTTPStatus(code int) *ReplyBuilder {
	if code < 100 || code > 599 {
		b.setError(fmt.Errorf("WithHTTPStatus: invalid status %d", code))
		return b
	}
	b.reply.httpStatus = code
	if (code < 200 || code >= 300) && b.reply.rawBody == "" {
		b.reply.rawBody = http.StatusText(code)
	}
	return b
}

// WithRawBody answers with body verbatim.
func (b *ReplyBuilder) WithRawBody(body string) *ReplyBuilder {
	b.reply.rawBody = body
	return b
}

// WithDelay delays the answer, e.g. "100ms".
func (b *ReplyBuilder) WithDelay(delay string) *ReplyBuilder {
	d, err := time.ParseDuration(delay)
	if err != nil {
		b.setError(fmt.Errorf("WithDelay: %w", err))
		return b
	}
	b.reply.delay = d
	return b
}

// Times limits how often the reply matches; later requests fall through to
// the next reply or a 404.
func (b *ReplyBuilder) Times(n int) *ReplyBuilder {
	b.reply.times = n
	return b
}

// Reply registers the reply. A building error fails the test.
func (b *ReplyBuilder) Reply() {
	b.authority.t.Helper()

	if b.err != nil {
		b.authority.t.Fatalf("invalid reply for %s: %v", b.reply.operation, b.err)
		return
	}
	if b.reply.description == "" {
		b.reply.description = status.Message(b.reply.statusCode)
	}
	b.authority.addReply(b.reply)
}
