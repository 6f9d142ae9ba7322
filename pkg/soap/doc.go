// Package soap marshals requests to and responses from the clearance
// authority's SOAP 1.1 endpoint.
//
// Requests are built from a credential and a value tree:
//
//	cred, _ := credential.New("jdoe", "abcdefghij0123")
//	params := value.FromMap(value.NewMap().
//	    SetText("Operation", "CheckStatus").
//	    SetText("f4indexno", "S0123/0001/2023"))
//	xml, err := soap.NewBuilder().Build(cred, params)
//
// The envelope carries the credential and a UTC timestamp in
// soap:Header/UsernameToken and the parameters in
// soap:Body/RequestParameters. Parameter names are sanitized into valid
// element names; list values repeat their element once per item.
//
// Responses are decoded into a Response record:
//
//	resp, err := soap.Parse(raw)
//	if err == nil && resp.IsSuccess() {
//	    fmt.Println(resp.IndexID, resp.StatusDescription)
//	}
//
// The parser accepts an enveloped or bare payload, ignores namespace
// prefixes, and resolves the index number, status code and status
// description through a fixed alias table. Every other field is kept in
// Response.Data.
//
// A Validator checks the structural sections of either direction and
// accumulates every problem rather than stopping at the first.
//
// # Errors
//
// Build failures are *BuildError, parse failures *ParseError, and
// Validator.Err returns a *ValidationError. All support errors.As.
package soap
