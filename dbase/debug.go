package dbase

import (
	"io"
	"log"
	"os"
)

var (
	debug       = false
	debugLogger = log.New(os.Stdout, "[dbase] [DEBUG] ", log.LstdFlags)
	errorLogger = log.New(os.Stdout, "[dbase] [ERROR] ", log.LstdFlags)
)

// Debug enables or disables debug logging of the package.
// Log lines are written to out, or to stdout if out is nil.
func Debug(enabled bool, out io.Writer) {
	debug = enabled
	if out == nil {
		out = os.Stdout
	}
	debugLogger.SetOutput(out)
	errorLogger.SetOutput(out)
}

func debugf(format string, v ...interface{}) {
	if debug {
		debugLogger.Printf(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if debug {
		errorLogger.Printf(format, v...)
	}
}
