package logger

import (
	"sync"
)

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

type recorder struct {
	mu       sync.Mutex
	messages []LogMessage
}

// TestLogger is a Logger that captures every message for later assertions.
// Child loggers created with WithField/WithError share the parent's records.
type TestLogger struct {
	rec    *recorder
	fields map[string]interface{}
	err    error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{rec: &recorder{}}
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return &TestLogger{rec: l.rec, fields: l.merge(fields), err: l.err}
}

func (l *TestLogger) WithError(err error) Logger {
	return &TestLogger{rec: l.rec, fields: l.fields, err: err}
}

func (l *TestLogger) merge(extra map[string]interface{}) map[string]interface{} {
	if len(l.fields) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(map[string]interface{}, len(l.fields)+len(extra))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()

	l.rec.messages = append(l.rec.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  l.merge(fields),
		Error:   l.err,
	})
}

// GetMessages returns a copy of all captured log messages
func (l *TestLogger) GetMessages() []LogMessage {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()

	messages := make([]LogMessage, len(l.rec.messages))
	copy(messages, l.rec.messages)
	return messages
}

// GetMessagesByLevel returns all messages of a specific level
func (l *TestLogger) GetMessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.GetMessages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks if a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.GetMessages() {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// HasError checks if an error-level message was logged
func (l *TestLogger) HasError() bool {
	return len(l.GetMessagesByLevel("ERROR")) > 0
}

// Clear drops all captured messages
func (l *TestLogger) Clear() {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	l.rec.messages = nil
}
