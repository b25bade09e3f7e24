package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Production and staging get JSON lines,
// everything else a readable text format.
func New(level string, environment string, output io.Writer) *logrus.Logger {
	if output == nil {
		output = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(output)

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.Warnf("invalid log level %q, defaulting to info", level)
	} else {
		log.SetLevel(parsed)
	}

	switch strings.ToLower(environment) {
	case "production", "staging":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return log
}
