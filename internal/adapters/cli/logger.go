package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// levelRank orders log levels for filtering
var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// ConsoleLogger implements common.OperationLogger, writing structured lines
// to stdout or stderr per the logging config.
type ConsoleLogger struct {
	minLevel string
	format   string
	out      *os.File
}

// NewConsoleLogger creates a logger from logging configuration values
func NewConsoleLogger(level, format, output string) *ConsoleLogger {
	out := os.Stdout
	if output == "stderr" {
		out = os.Stderr
	}
	return &ConsoleLogger{
		minLevel: normalizeLevel(level),
		format:   format,
		out:      out,
	}
}

// Log writes one log line, dropping entries below the configured level
func (l *ConsoleLogger) Log(level, message string, metadata map[string]interface{}) {
	level = normalizeLevel(level)
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if l.format == "json" {
		entry := map[string]interface{}{
			"time":    now,
			"level":   level,
			"message": message,
		}
		for k, v := range metadata {
			entry[k] = v
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(l.out, string(data))
		}
		return
	}

	line := fmt.Sprintf("%s %-5s %s", now, level, message)
	for k, v := range metadata {
		line += fmt.Sprintf(" %s=%v", k, v)
	}
	fmt.Fprintln(l.out, line)
}

func normalizeLevel(level string) string {
	switch level {
	case "debug", "DEBUG":
		return "DEBUG"
	case "warn", "WARN":
		return "WARN"
	case "error", "ERROR":
		return "ERROR"
	default:
		return "INFO"
	}
}
