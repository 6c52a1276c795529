// Package logger provides the structured logging interface used by lipost.
//
// It wraps zerolog with a small interface so that library code can log
// request and upload events without depending on zerolog directly:
//
//	log := logger.GetLogger().WithField("component", "linkedin")
//	log.DebugWithFields("sending HTTP request", map[string]interface{}{
//	    "method": "GET",
//	    "url":    "https://api.linkedin.com/v2/me",
//	})
//
// Tests use NewTestLogger to capture messages and NewNopLogger to silence them.
package logger
