package testing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/uniclear/clearance/pkg/soap"
	"github.com/uniclear/clearance/pkg/status"
)

// Authority is a fake clearance authority for tests. It validates incoming
// envelopes, answers with registered replies and records every request.
type Authority struct {
	t       testing.TB
	httpSrv *httptest.Server
	builder *soap.Builder

	mu       sync.Mutex
	replies  []*reply
	requests []RequestLog
	token    string

	started bool
	baseURL string
}

// New creates a fake authority. It is stopped automatically when the test
// completes.
func New(t testing.TB) *Authority {
	t.Helper()
	return &Authority{
		t:       t,
		builder: soap.NewBuilder(),
	}
}

// Start starts the server and returns its URL.
func (a *Authority) Start() string {
	a.t.Helper()

	if a.started {
		return a.baseURL
	}
	a.httpSrv = httptest.NewServer(http.HandlerFunc(a.serve))
	a.baseURL = a.httpSrv.URL
	a.started = true
	a.t.Cleanup(a.Stop)
	return a.baseURL
}

// Stop stops the server. It is safe to call more than once.
func (a *Authority) Stop() {
	if a.httpSrv != nil {
		a.httpSrv.Close()
	}
	a.started = false
}

// URL returns the server URL, or "" before Start.
func (a *Authority) URL() string {
	return a.baseURL
}

// Client returns an http.Client configured for the server.
func (a *Authority) Client() *http.Client {
	if a.httpSrv != nil {
		return a.httpSrv.Client()
	}
	return http.DefaultClient
}

// RequireToken makes the authority answer status 204 to any request whose
// session token differs from token.
func (a *Authority) RequireToken(token string) *Authority {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
	return a
}

// On starts a reply for op.
//
//	auth.On("CheckStatus").ForIndex("S0123/0001/2023").WithStatus(208, "").Reply()
func (a *Authority) On(op string) *ReplyBuilder {
	return &ReplyBuilder{
		authority: a,
		reply: &reply{
			operation:  op,
			params:     make(map[string]string),
			statusCode: status.CodeSuccess,
			httpStatus: http.StatusOK,
		},
	}
}

// Reset clears replies and the request log.
func (a *Authority) Reset() {
	a.mu.Lock()
	a.replies = nil
	a.requests = nil
	a.mu.Unlock()
}

// Requests returns the request log in arrival order.
func (a *Authority) Requests() []RequestLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]RequestLog(nil), a.requests...)
}

// AssertCalled asserts that op was called at least once.
func (a *Authority) AssertCalled(t testing.TB, op string) {
	t.Helper()

	if a.countCalls(op) == 0 {
		t.Errorf("expected %s to be called, but it was not called", op)
	}
}

// AssertCalledTimes asserts that op was called exactly n times.
func (a *Authority) AssertCalledTimes(t testing.TB, op string, times int) {
	t.Helper()

	if count := a.countCalls(op); count != times {
		t.Errorf("expected %s to be called %d times, but was called %d times", op, times, count)
	}
}

// AssertNotCalled asserts that op was not called.
func (a *Authority) AssertNotCalled(t testing.TB, op string) {
	t.Helper()

	if count := a.countCalls(op); count > 0 {
		t.Errorf("expected %s to not be called, but it was called %d times", op, count)
	}
}

func (a *Authority) countCalls(op string) int {
	count := 0
	for _, r := range a.Requests() {
		if strings.EqualFold(r.Operation, op) {
			count++
		}
	}
	return count
}

func (a *Authority) addReply(r *reply) {
	a.mu.Lock()
	a.replies = append(a.replies, r)
	a.mu.Unlock()
}

func (a *Authority) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log := newRequestLog(r, string(data))
	if !log.Valid {
		a.record(log)
		http.Error(w, strings.Join(log.Errors, "\n"), http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	token := a.token
	var match *reply
	if token == "" || log.SessionToken == token {
		for _, rep := range a.replies {
			if rep.take(log) {
				match = rep
				break
			}
		}
	}
	a.mu.Unlock()

	if token != "" && log.SessionToken != token {
		a.record(log)
		a.write(w, log, &reply{
			statusCode:  status.CodeSessionTokenNotFound,
			description: status.Message(status.CodeSessionTokenNotFound),
			httpStatus:  http.StatusOK,
		})
		return
	}
	if match == nil {
		a.record(log)
		http.Error(w, "no reply registered for "+log.Operation, http.StatusNotFound)
		return
	}

	log.Matched = true
	a.record(log)
	if match.delay > 0 {
		if !sleep(r.Context(), match.delay) {
			return
		}
	}
	a.write(w, log, match)
}

func (a *Authority) record(log RequestLog) {
	a.mu.Lock()
	a.requests = append(a.requests, log)
	a.mu.Unlock()
}

func (a *Authority) write(w http.ResponseWriter, log RequestLog, rep *reply) {
	if rep.httpStatus < 200 || rep.httpStatus >= 300 {
		http.Error(w, rep.rawBody, rep.httpStatus)
		return
	}

	body := rep.rawBody
	if body == "" {
		indexID := rep.indexID
		if indexID == "" {
			indexID = log.IndexID
		}
		var err error
		body, err = a.builder.BuildResponse(log.Operation, &soap.Response{
			IndexID:           indexID,
			StatusCode:        rep.statusCode,
			StatusDescription: rep.description,
			Data:              rep.data,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", soap.ContentType)
	w.WriteHeader(rep.httpStatus)
	_, _ = io.WriteString(w, body)
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
