// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Setup sets the global formatter and level. Production logs are JSON.
func Setup(level string, production bool, out io.Writer) {
	if out != nil {
		logrus.SetOutput(out)
	}

	if production {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch level {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// For returns an entry tagged with component
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
