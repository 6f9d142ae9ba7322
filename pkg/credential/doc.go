// Package credential holds the authenticated session used to sign every
// request sent to the clearance authority.
//
// A Credential pairs a username (1–50 characters) with a session token
// (10–255 characters) and the time the session was issued. Construction
// fails with an *AuthenticationError when either constraint is violated.
//
// Expiry is never stored. IsExpired recomputes it from CreatedAt and a
// caller-supplied TTL each time, so a Credential moves from valid to expired
// exactly once and cannot be revived.
package credential
