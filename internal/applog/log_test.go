package applog

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/coreos/go-systemd/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		" warn ":  LogLevelWarn,
		"warning": LogLevelWarn,
		"Error":   LogLevelError,
		"fatal":   LogLevelFatal,
		"off":     LogLevelOff,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestDefaultHandlerFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := &DefaultLogHandler{Level: LogLevelInfo, Out: &buf}
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	h.Log(LogLevelDebug, when, "netconf", "hidden %d", 1)
	h.Log(LogLevelInfo, when, "netconf", "taking down network device: %s", "eth0")

	assert.Equal(t, "2024-01-02T03:04:05Z [INFO] netconf taking down network device: eth0\n", buf.String())
}

func TestJournalHandlerFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var sent []map[string]string

	h := NewJournalHandler(LogLevelDebug, "initrd-teardown", &DefaultLogHandler{Level: LogLevelDebug, Out: &buf})
	h.send = func(msg string, prio journal.Priority, vars map[string]string) error {
		sent = append(sent, vars)

		if prio == journal.PriErr {
			return errors.New("socket gone")
		}

		return nil
	}

	h.Log(LogLevelInfo, time.Now(), "propagate", "hello %s", "world")
	h.Log(LogLevelError, time.Now(), "propagate", "broken")

	require.Len(t, sent, 2)
	assert.Equal(t, "initrd-teardown", sent[0]["SYSLOG_IDENTIFIER"])
	assert.Equal(t, "propagate", sent[0]["INITRD_TEARDOWN_PKG"])
	assert.Contains(t, buf.String(), "[ERROR] propagate broken")
	assert.NotContains(t, buf.String(), "hello world")
}

func TestOffSilencesEverything(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := &DefaultLogHandler{Level: LogLevelOff, Out: &buf}

	h.Log(LogLevelFatal, time.Now(), "boot", "route flush: %v", errors.New("boom"))

	assert.Empty(t, buf.String())
}
