// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"geomap/internal/config"
)

var std = newDiscard()

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup configures the shared logger from c. Output goes to c.File, or is
// discarded when it is empty. The returned closer releases the file.
func Setup(c config.Log) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	l := logrus.New()
	l.SetLevel(lvl)
	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	var closer io.Closer = nopCloser{}
	if c.File == "" {
		l.SetOutput(io.Discard)
	} else {
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "log file")
		}
		l.SetOutput(f)
		closer = f
	}
	std = l
	return closer, nil
}

// L returns the shared logger.
func L() *logrus.Logger { return std }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
