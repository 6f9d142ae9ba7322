package testing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	stdtesting "testing"
	"time"

	"github.com/uniclear/clearance/pkg/client"
	"github.com/uniclear/clearance/pkg/credential"
	"github.com/uniclear/clearance/pkg/status"
	"github.com/uniclear/clearance/pkg/value"
)

const testToken = "abcdefghij0123"

func newClient(t *stdtesting.T, url string) *client.Client {
	t.Helper()
	cred, err := credential.New("jdoe", testToken)
	if err != nil {
		t.Fatalf("credential: %v", err)
	}
	c, err := client.New(cred, client.NewHTTPTransport(url, 5*time.Second))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func params(kv ...string) value.Value {
	m := value.NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.SetText(kv[i], kv[i+1])
	}
	return value.FromMap(m)
}

func TestAuthority_ReplyAndRecord(t *stdtesting.T) {
	auth := New(t)
	auth.On("CheckStatus").
		ForIndex("S0123/0001/2023").
		WithStatus(status.CodeDuplicateRecord, "").
		WithField("Programme", "BSc").
		Reply()
	url := auth.Start()

	c := newClient(t, url)
	resp, err := c.Call(context.Background(), "CheckStatus", params("f4indexno", "S0123/0001/2023"))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	if resp.StatusCode != status.CodeDuplicateRecord {
		t.Errorf("expected status %d, got %d", status.CodeDuplicateRecord, resp.StatusCode)
	}
	if resp.StatusDescription != status.Message(status.CodeDuplicateRecord) {
		t.Errorf("unexpected description %q", resp.StatusDescription)
	}
	if resp.IndexID != "S0123/0001/2023" {
		t.Errorf("unexpected index %q", resp.IndexID)
	}
	if got := resp.Field("Programme"); got != "BSc" {
		t.Errorf("expected Programme BSc, got %q", got)
	}

	auth.AssertCalled(t, "CheckStatus")
	auth.AssertCalledTimes(t, "checkstatus", 1)
	auth.AssertNotCalled(t, "AddApplicant")

	reqs := auth.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	req := reqs[0]
	if !req.Valid || !req.Matched {
		t.Errorf("expected a valid matched request, got valid=%v matched=%v errors=%v", req.Valid, req.Matched, req.Errors)
	}
	req.AssertUsername(t, "jdoe")
	req.AssertParam(t, "f4indexno", "S0123/0001/2023")
	req.AssertParam(t, "Operation", "CheckStatus")
	req.AssertHeaderContains(t, "content-type", "text/xml")
	req.AssertBodyContains(t, "<SessionToken>"+testToken+"</SessionToken>")
}

func TestAuthority_EchoesIndexAndMatchesParams(t *stdtesting.T) {
	auth := New(t)
	auth.On("SubmitProgramme").WithParam("ProgrammeCode", "CS01").WithStatus(200, "ok").Reply()
	auth.On("SubmitProgramme").WithStatus(status.CodeSuccess, "fallback").Reply()
	url := auth.Start()

	c := newClient(t, url)
	resp, err := c.Call(context.Background(), "SubmitProgramme", params("f4indexno", "S1", "ProgrammeCode", "CS01"))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.IndexID != "S1" || resp.StatusDescription != "ok" {
		t.Errorf("unexpected response %+v", resp)
	}

	resp, err = c.Call(context.Background(), "SubmitProgramme", params("f4indexno", "S2", "ProgrammeCode", "ED02"))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.StatusDescription != "fallback" {
		t.Errorf("expected fallback reply, got %q", resp.StatusDescription)
	}

	req := auth.Requests()[1]
	if req.Operation != "SubmitProgramme" || req.IndexID != "S2" {
		t.Errorf("unexpected request log %+v", req)
	}
	if got := req.Params.Map().Text("ProgrammeCode"); got != "ED02" {
		t.Errorf("expected ProgrammeCode ED02 in params, got %q", got)
	}
}

func TestAuthority_TimesAndUnmatched(t *stdtesting.T) {
	auth := New(t)
	auth.On("GetProgrammes").Times(1).Reply()
	url := auth.Start()

	c := newClient(t, url)
	if _, err := c.Call(context.Background(), "GetProgrammes", params()); err != nil {
		t.Fatalf("first call: %v", err)
	}

	_, err := c.Call(context.Background(), "GetProgrammes", params())
	var te *client.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusNotFound {
		t.Fatalf("expected HTTP 404, got %v", err)
	}

	reqs := auth.Requests()
	if len(reqs) != 2 || reqs[1].Matched {
		t.Errorf("expected second request to be unmatched: %+v", reqs)
	}
}

func TestAuthority_HTTPFailureThenRecovery(t *stdtesting.T) {
	auth := New(t)
	auth.On("CheckStatus").WithHTTPStatus(http.StatusServiceUnavailable).Times(1).Reply()
	auth.On("CheckStatus").Reply()
	url := auth.Start()
	c := newClient(t, url)

	_, err := c.Call(context.Background(), "CheckStatus", params("f4indexno", "S1"))
	var te *client.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected HTTP 503, got %v", err)
	}

	resp, err := c.Call(context.Background(), "CheckStatus", params("f4indexno", "S1"))
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	auth.AssertCalledTimes(t, "CheckStatus", 2)
}

func TestAuthority_RequireToken(t *stdtesting.T) {
	auth := New(t).RequireToken("another-token-123")
	auth.On("CheckStatus").Reply()
	url := auth.Start()

	resp, err := newClient(t, url).Call(context.Background(), "CheckStatus", params("f4indexno", "S1"))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !resp.Status().AuthenticationFailure {
		t.Errorf("expected an authentication failure, got %d", resp.StatusCode)
	}
}

func TestAuthority_RejectsMalformedEnvelope(t *stdtesting.T) {
	auth := New(t)
	url := auth.Start()

	resp, err := auth.Client().Post(url, "text/xml", strings.NewReader("<Envelope><Body/></Envelope>"))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	reqs := auth.Requests()
	if len(reqs) != 1 || reqs[0].Valid || len(reqs[0].Errors) == 0 {
		t.Errorf("expected an invalid logged request, got %+v", reqs)
	}
}

func TestAuthority_DelayHonoursContext(t *stdtesting.T) {
	auth := New(t)
	auth.On("CheckStatus").WithDelay("2s").Reply()
	url := auth.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, url).Call(ctx, "CheckStatus", params("f4indexno", "S1"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestReplyBuilder_Errors(t *stdtesting.T) {
	auth := New(t)
	if err := auth.On("X").WithDelay("soon").Err(); err == nil {
		t.Error("expected an invalid delay error")
	}
	if err := auth.On("X").WithHTTPStatus(42).Err(); err == nil {
		t.Error("expected an invalid status error")
	}
}

func TestAuthority_Reset(t *stdtesting.T) {
	auth := New(t)
	auth.On("GetProgrammes").Reply()
	url := auth.Start()

	if _, err := newClient(t, url).Call(context.Background(), "GetProgrammes", params()); err != nil {
		t.Fatal(err)
	}
	auth.Reset()

	if n := len(auth.Requests()); n != 0 {
		t.Errorf("expected empty log after Reset, got %d", n)
	}
	if auth.URL() != url || auth.Start() != url {
		t.Error("Start after Reset should keep the running server")
	}
}
