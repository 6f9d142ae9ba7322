// Package testing provides a fake clearance authority for Go tests.
//
// The fake validates every envelope it receives, answers with replies
// registered through a fluent builder, and records requests for assertions.
//
// # Basic Usage
//
//	func TestCheck(t *testing.T) {
//	    auth := clearancetest.New(t)
//	    auth.On("CheckStatus").
//	        ForIndex("S0123/0001/2023").
//	        WithStatus(208, "").
//	        Reply()
//
//	    url := auth.Start()
//
//	    // Point a client at url and make calls...
//
//	    auth.AssertCalledTimes(t, "CheckStatus", 1)
//	    req := auth.Requests()[0]
//	    req.AssertUsername(t, "jdoe")
//	    req.AssertParam(t, "f4indexno", "S0123/0001/2023")
//	}
//
// # Matching
//
// A reply matches on operation name (ignoring case) and optionally on the
// index number and any parameter. Replies are tried in registration order;
// Times limits how often one may match. An unmatched request gets HTTP 404.
//
// # Failure Modes
//
//	auth.On("CheckStatus").WithHTTPStatus(503).Times(1).Reply()
//	auth.On("CheckStatus").WithDelay("2s").Reply()
//	auth.On("CheckStatus").WithRawBody("<not-xml").Reply()
//	auth.RequireToken("expected-token") // other tokens get status 204
//
// Envelopes that fail structural checks get HTTP 400 and are logged with
// Valid set to false.
package testing
