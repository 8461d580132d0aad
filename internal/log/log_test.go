// ABOUTME: Tests for logger construction
// ABOUTME: Checks level selection and the debug environment switch
package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsToInfo(t *testing.T) {
	t.Setenv(DebugEnv, "")
	l := NewWithOutput(&bytes.Buffer{}, false)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewDebugFlag(t *testing.T) {
	t.Setenv(DebugEnv, "")
	l := NewWithOutput(&bytes.Buffer{}, true)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestDebugEnv(t *testing.T) {
	for value, want := range map[string]logrus.Level{
		"true":  logrus.DebugLevel,
		"1":     logrus.DebugLevel,
		"false": logrus.InfoLevel,
		"bogus": logrus.InfoLevel,
	} {
		t.Setenv(DebugEnv, value)
		l := NewWithOutput(&bytes.Buffer{}, false)
		assert.Equal(t, want, l.GetLevel(), "MBAS_DEBUG=%s", value)
	}
}

func TestOutputCarriesFields(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	l := NewWithOutput(&buf, false)
	l.WithField("component", "sequencer").Info("Server is listening on /tmp/mbas.sock")

	assert.Contains(t, buf.String(), "component=sequencer")
	assert.Contains(t, buf.String(), "Server is listening")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("dropped")
}
