package soap

import (
	"time"

	"github.com/uniclear/clearance/pkg/status"
	"github.com/uniclear/clearance/pkg/value"
)

// SOAP namespace URIs
const (
	SOAP11Namespace = "http://schemas.xmlsoap.org/soap/envelope/"
	SOAP12Namespace = "http://www.w3.org/2003/05/soap-envelope"
)

// EnvelopePrefix is the namespace prefix used on outgoing envelopes.
const EnvelopePrefix = "soap"

// Element names of the wire format. Lookups ignore namespace prefixes.
const (
	EnvelopeElement           = "Envelope"
	HeaderElement             = "Header"
	BodyElement               = "Body"
	AuthElement               = "UsernameToken"
	UsernameElement           = "Username"
	SessionTokenElement       = "SessionToken"
	TimestampElement          = "Timestamp"
	RequestParametersElement  = "RequestParameters"
	ResponseParametersElement = "ResponseParameters"
	OperationElement          = "Operation"
)

// TimestampLayout is the ISO-8601 UTC layout of the header Timestamp.
const TimestampLayout = "2006-01-02T15:04:05Z"

// ContentType for SOAP 1.1 requests.
const ContentType = "text/xml; charset=utf-8"

// Response is the canonical record every parsed response reduces to.
type Response struct {
	// IndexID is the candidate's F4 index number, resolved via the alias table.
	IndexID string `json:"indexId"`

	// StatusCode is the integer status; 0 when absent or unparsable.
	StatusCode int `json:"statusCode"`

	// StatusDescription is the authority's text; empty when absent.
	StatusDescription string `json:"statusDescription"`

	// Data holds every flattened field not claimed by the canonical three.
	Data value.Value `json:"data"`

	// Raw is the XML the record was parsed from.
	Raw string `json:"-"`

	// Timestamp is when the response was parsed.
	Timestamp time.Time `json:"timestamp"`
}

// Status classifies the response's status code.
func (r *Response) Status() status.Classification {
	return status.Classify(r.StatusCode)
}

// IsSuccess reports whether the status code is in the success set.
func (r *Response) IsSuccess() bool {
	return status.IsSuccess(r.StatusCode)
}

// Message returns the registry message for the status code.
func (r *Response) Message() string {
	return status.Message(r.StatusCode)
}

// Field returns the text of a residual data field, or "".
func (r *Response) Field(key string) string {
	return r.Data.Map().Text(key)
}
