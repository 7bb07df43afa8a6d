package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog configures the global logger. Logs go to stderr by default; when
// NARRATE_LOGFILE is set they go to that file instead so generation output
// stays clean for scripting. The returned closer flushes the log file.
func setupLog() (func() error, error) {
	log.SetLevel(log.InfoLevel)
	if os.Getenv("NARRATE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	path := os.Getenv("NARRATE_LOGFILE")
	if path == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}
