package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// Init sets the minimum level. Unknown levels fall back to info.
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.SetLevel(lvl)
	std.WithField("level_name", lvl.String()).Info("logger initialized")
}

// Logger exposes the underlying logrus logger for callers that need it
// directly, e.g. tests capturing output.
func Logger() *logrus.Logger {
	return std
}

func Debug(msg string, fields map[string]any) {
	std.WithFields(fields).Debug(msg)
}

func Info(msg string, fields map[string]any) {
	std.WithFields(fields).Info(msg)
}

func Warn(msg string, fields map[string]any) {
	std.WithFields(fields).Warn(msg)
}

func Error(msg string, fields map[string]any) {
	std.WithFields(fields).Error(msg)
}

func Fatal(msg string, fields map[string]any) {
	std.WithFields(fields).Fatal(msg)
}
