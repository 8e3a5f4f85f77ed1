// Package logging builds the root structured logger that cmd/modem hands
// to the ambient (non-core) components. Of those, the CLI itself, the
// control server and the KISS TCP listener write log lines; config
// loading, the sinks, PTT and the modem orchestrator do not log. The pure
// signal-chain packages (ax25, fx25, dds) never import this package; see §5.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New builds the root logger at the given level ("debug", "info", "warn",
// "error"; anything else defaults to info), writing to stderr so stdout
// stays free for any piped sample data.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(parseLevel(level))
	return logger
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
