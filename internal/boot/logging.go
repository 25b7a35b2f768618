package boot

import (
	"os"

	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/config"
)

const journalIdentifier = "initrd-teardown"

// SetupLogging installs the log handler. level, when set, overrides the
// configured level; debug forces debug output.
func SetupLogging(conf config.LogConfig, level string, debug bool) error {
	if level == "" {
		level = conf.Level
	}

	lvl, err := applog.ParseLevel(level)
	if err != nil {
		return err
	}

	if debug {
		lvl = applog.LogLevelDebug
	}

	var handler applog.LogHandler = &applog.DefaultLogHandler{Level: lvl, Out: os.Stdout}

	if conf.Journal != nil && *conf.Journal && applog.JournalAvailable() {
		handler = applog.NewJournalHandler(lvl, journalIdentifier, handler)
	}

	applog.SetLogHandler(handler)

	return nil
}
