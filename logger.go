package fastimage

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// newNopLogger creates a logger that discards everything. Its level is set
// to panic so that debug and warn entries are never formatted.
func newNopLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

var loggerPtr atomic.Pointer[logrus.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by engines created without
// WithLogger. By default fastimage produces no log output; pass nil to
// restore that.
//
// Levels used:
//   - logrus.DebugLevel: dispatch and aggregation of executions
//   - logrus.WarnLevel: failed regions
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *logrus.Logger {
	return loggerPtr.Load()
}
