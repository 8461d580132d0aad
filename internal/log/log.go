// ABOUTME: Logger construction for the service and its tools
// ABOUTME: logrus text logger; MBAS_DEBUG=true enables debug output
package log

import (
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv enables debug logging when it parses as true
const DebugEnv = "MBAS_DEBUG"

// debugFromEnv reports whether MBAS_DEBUG is set to a true value
func debugFromEnv() bool {
	debug, err := strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		return false
	}
	return debug
}

// New returns a logger writing to stderr
func New(debug bool) *logrus.Logger {
	return NewWithOutput(os.Stderr, debug)
}

// NewWithOutput returns a logger writing to w
func NewWithOutput(w io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if debug || debugFromEnv() {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything, for tests and tools
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
