// Package logger wraps logrus with level setup and field helpers.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Fields carries structured context for a log line.
type Fields = logrus.Fields

// Init configures the formatter and parses the level string ("debug",
// "info", "warning", "error"). Call once at startup.
func Init(level string) error {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	entry(fields).Debug(msg)
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	entry(fields).Info(msg)
}

// Warn logs a warning. Per-pair migration failures land here.
func Warn(msg string, err error, fields ...Fields) {
	e := entry(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Warning(msg)
}

// Error logs an error message.
func Error(msg string, err error, fields ...Fields) {
	e := entry(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

func entry(fields []Fields) *logrus.Entry {
	if len(fields) > 0 {
		return log.WithFields(fields[0])
	}
	return logrus.NewEntry(log)
}
