package cli

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// configureLogger sets the level and destination of l.
func configureLogger(l *log.Logger, level string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	l.SetLevel(lvl)
	l.SetOutput(out)
	l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	return nil
}

// logToFile redirects l to path so a full-screen program keeps the terminal
// clean. The returned function closes the file.
func logToFile(l *log.Logger, path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
	return func() { f.Close() }, nil
}
