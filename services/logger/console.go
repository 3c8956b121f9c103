// Package logsvc provides core.Logger implementations: a plain console
// logger for development and a Rollbar-backed one for deployed builds.
package logsvc

import (
	"log"
	"os"

	"github.com/trezcool/darasa/core"
)

type ConsoleLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger, conf *core.Config) *ConsoleLogger {
	return &ConsoleLogger{std: std, debug: conf.Debug}
}

func (l ConsoleLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.print("DEBUG", msg, args)
	}
}

func (l ConsoleLogger) Info(msg string, args ...interface{}) {
	l.print("INFO", msg, args)
}

func (l ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.print("WARN", msg, args)
}

func (l ConsoleLogger) Error(msg string, args ...interface{}) {
	l.print("ERROR", msg, args)
}

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	os.Exit(1)
}
