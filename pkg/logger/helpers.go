package logger

// NewNopLogger creates a no-operation logger
func NewNopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (n nopLogger) Debug(msg string)                                          {}
func (n nopLogger) Info(msg string)                                           {}
func (n nopLogger) Warn(msg string)                                           {}
func (n nopLogger) Error(msg string)                                          {}
func (n nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n nopLogger) WithError(err error) Logger                                { return n }
func (n nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
