package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv("DVBTX_DEBUG"))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance. Output goes to stderr so the
// sample stream on stdout stays clean.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
