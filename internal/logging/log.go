// Package logging configures the logrus loggers used by the command line
// tools and the run browser.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to out at the named level.
func New(out io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if out == nil {
		out = os.Stderr
	}
	return &logrus.Logger{
		Out: out,
		Formatter: &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}, nil
}

// Named tags every entry of l with a component name.
func Named(l *logrus.Logger, name string) *logrus.Entry {
	return l.WithField("component", name)
}

// CallerFormatter prefixes messages with the calling file and line.
type CallerFormatter struct {
	logrus.TextFormatter
}

func (f *CallerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Message = fmt.Sprintf("[%-15s:%03d] %s", path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)
	} else if _, file, no, ok := runtime.Caller(7); ok {
		entry.Message = fmt.Sprintf("[%-15s:%03d] %s", path.Base(file), no, entry.Message)
	}
	return f.TextFormatter.Format(entry)
}

// Debug switches l to the debug level with caller annotations.
func Debug(l *logrus.Logger) {
	l.SetLevel(logrus.DebugLevel)
	l.SetReportCaller(true)
	l.SetFormatter(&CallerFormatter{logrus.TextFormatter{FullTimestamp: true}})
}
