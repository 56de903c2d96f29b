package motionlink

import "go.uber.org/zap"

var l = newDefaultLogger()

func newDefaultLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// SetLogger replaces the package logger. Call before any client, server or
// dispatcher is started.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		panic("motionlink: nil logger")
	}
	l = logger
}
