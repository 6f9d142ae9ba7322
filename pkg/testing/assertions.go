package testing

import (
	"net/http"
	"strings"
	"testing"

	"github.com/uniclear/clearance/pkg/soap"
	"github.com/uniclear/clearance/pkg/value"
)

// RequestLog represents a received request for assertions.
type RequestLog struct {
	// Operation is RequestParameters/Operation.
	Operation string
	// Username and SessionToken come from the UsernameToken block.
	Username     string
	SessionToken string
	// IndexID is the f4indexno parameter.
	IndexID string
	// Params holds the remaining request parameters.
	Params value.Value
	// Headers are the request headers (single value per key)
	Headers map[string]string
	// Body is the raw envelope.
	Body string
	// Valid is false when the envelope failed structural checks; Errors
	// lists them.
	Valid  bool
	Errors []string
	// Matched reports whether a registered reply answered the request.
	Matched bool
}

func newRequestLog(r *http.Request, body string) RequestLog {
	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	log := RequestLog{Headers: headers, Body: body}

	v := soap.NewValidator()
	for _, check := range []func(string) (bool, []string){
		v.ValidateEnvelope,
		v.ValidateAuthSection,
		v.ValidateParameterSection,
	} {
		if ok, errs := check(body); !ok {
			log.Errors = append(log.Errors, errs...)
		}
	}
	log.Valid = len(log.Errors) == 0
	if !log.Valid {
		return log
	}

	log.Username = soap.ExtractXPath(body, "//UsernameToken/Username")
	log.SessionToken = soap.ExtractXPath(body, "//UsernameToken/SessionToken")

	// The request parameters parse like a bare response payload.
	parsed, err := soap.Parse(body)
	if err != nil {
		log.Valid = false
		log.Errors = append(log.Errors, err.Error())
		return log
	}
	log.IndexID = parsed.IndexID
	params := parsed.Data.Map().Clone()
	if op, ok := params.Get(soap.OperationElement); ok {
		log.Operation = op.Text()
		params.Delete(soap.OperationElement)
	}
	log.Params = value.FromMap(params)
	return log
}

// Param returns the text of RequestParameters/key, or "". Nested keys use
// slashes ("Applicant/Surname").
func (r *RequestLog) Param(key string) string {
	return soap.ExtractXPath(r.Body, "//"+soap.RequestParametersElement+"/"+key)
}

// AssertParam asserts that RequestParameters/key has the expected text.
func (r *RequestLog) AssertParam(t testing.TB, key, expected string) {
	t.Helper()

	if actual := r.Param(key); actual != expected {
		t.Errorf("parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertUsername asserts the credential's username.
func (r *RequestLog) AssertUsername(t testing.TB, expected string) {
	t.Helper()

	if r.Username != expected {
		t.Errorf("username mismatch\nexpected: %q\nactual: %q", expected, r.Username)
	}
}

// AssertBodyContains asserts that the envelope contains the expected substring.
func (r *RequestLog) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(r.Body, substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, r.Body)
	}
}

// AssertHeader asserts that the request had the specified header with the expected value.
func (r *RequestLog) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	actual, ok := r.header(key)
	if !ok {
		t.Errorf("request does not have header %q", key)
		return
	}
	if actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertHeaderContains asserts that the header value contains the expected substring.
func (r *RequestLog) AssertHeaderContains(t testing.TB, key, substr string) {
	t.Helper()

	actual, ok := r.header(key)
	if !ok {
		t.Errorf("request does not have header %q", key)
		return
	}
	if !strings.Contains(actual, substr) {
		t.Errorf("header %q value does not contain %q\nvalue: %q", key, substr, actual)
	}
}

func (r *RequestLog) header(key string) (string, bool) {
	if v, ok := r.Headers[key]; ok {
		return v, true
	}
	// Try case-insensitive match
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
