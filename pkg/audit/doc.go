// Package audit records every call the client makes to the clearance
// authority.
//
// Each call produces one AuditEntry written as a JSON line (NDJSON), so the
// trail can be read back with jq or shipped to a log pipeline.
//
// # Basic Usage
//
//	config := &audit.AuditConfig{
//		Enabled:    true,
//		Level:      audit.LevelInfo,
//		OutputFile: "/var/log/clearance-audit.log",
//	}
//
//	logger, err := audit.NewLogger(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer logger.Close()
//
//	entry := audit.NewAuditEntry(audit.EventCallCompleted, "")
//	entry.WithCall(&audit.CallInfo{Operation: "CheckStatus", Username: "jdoe"})
//	logger.Log(*entry)
//
// Bodies are stored as PayloadInfo built by AuditConfig.Payload, which
// truncates them and masks the session token unless KeepSecrets is set.
//
// # Logger Types
//
//   - FileLogger: appends to a file
//   - WriterLogger: writes to any io.Writer; NewStdoutLogger uses stdout
//   - MultiWriter: fans out to several loggers
//   - NoOpLogger: discards all entries, used when auditing is disabled
//
// All logger implementations are safe for concurrent use.
package audit
