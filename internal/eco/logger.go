package eco

// Logger is the logging contract injected into the eco package. The CLI
// wires a stderr logger, the server wires zap; the core never picks one.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NoOpLogger discards everything. It is the default for worlds and the
// natural choice in tests.
type NoOpLogger struct{}

func (n *NoOpLogger) Debugf(format string, v ...any) {}
func (n *NoOpLogger) Infof(format string, v ...any)  {}
func (n *NoOpLogger) Warnf(format string, v ...any)  {}
func (n *NoOpLogger) Errorf(format string, v ...any) {}

// NewNoOpLogger creates a no-op logger.
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}
