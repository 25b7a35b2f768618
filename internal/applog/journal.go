package applog

import (
	"fmt"
	"time"

	"github.com/coreos/go-systemd/journal"
)

var journalPriorities = map[LogLevel]journal.Priority{
	LogLevelDebug: journal.PriDebug,
	LogLevelInfo:  journal.PriInfo,
	LogLevelWarn:  journal.PriWarning,
	LogLevelError: journal.PriErr,
	LogLevelFatal: journal.PriCrit,
}

// JournalHandler sends entries straight to journald so the package name
// survives as a field. Entries journald refuses go to Fallback.
type JournalHandler struct {
	Level      LogLevel
	Identifier string
	Fallback   LogHandler
	send       func(string, journal.Priority, map[string]string) error
}

func NewJournalHandler(level LogLevel, identifier string, fallback LogHandler) *JournalHandler {
	return &JournalHandler{Level: level, Identifier: identifier, Fallback: fallback, send: journal.Send}
}

// JournalAvailable reports whether the journald socket accepts datagrams.
func JournalAvailable() bool {
	return journal.Enabled()
}

func (h *JournalHandler) Log(level LogLevel, when time.Time, pkg string, msg string, args ...any) {
	if h.Level == LogLevelOff || level < h.Level {
		return
	}

	vars := map[string]string{
		"SYSLOG_IDENTIFIER":   h.Identifier,
		"INITRD_TEARDOWN_PKG": pkg,
	}

	if err := h.send(fmt.Sprintf(msg, args...), journalPriorities[level], vars); err != nil && h.Fallback != nil {
		h.Fallback.Log(level, when, pkg, msg, args...)
	}
}
