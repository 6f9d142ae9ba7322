// Package config loads the clearance client configuration.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then CLEARANCE_* environment variables.
//
//	cfg, err := config.Load("clearance.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cred, err := cfg.Credential()
//
// A minimal file:
//
//	baseURL: https://clearance.example.ac/api/soap
//	timeout: 20s
//	username: jdoe
//	sessionToken: abcdefghij0123
//	sessionTTL: 12h
//	logging:
//	  level: debug
//	audit:
//	  enabled: true
//	  outputFile: audit.log
//
// Environment variables: CLEARANCE_BASE_URL, CLEARANCE_TIMEOUT,
// CLEARANCE_USERNAME, CLEARANCE_SESSION_TOKEN, CLEARANCE_SESSION_ISSUED_AT
// (RFC 3339), CLEARANCE_SESSION_TTL, CLEARANCE_LOG_LEVEL,
// CLEARANCE_LOG_FORMAT, CLEARANCE_LOG_FILE, CLEARANCE_AUDIT_ENABLED,
// CLEARANCE_AUDIT_LEVEL, CLEARANCE_AUDIT_FILE, CLEARANCE_AUDIT_STDOUT and
// CLEARANCE_AUDIT_PREVIEW_SIZE.
package config
