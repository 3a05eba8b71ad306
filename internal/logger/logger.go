// Package logger provides the process-wide leveled loggers.  Prefixes are
// colored when the output is a terminal.
package logger

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
)

func init() {
	SetOutput(os.Stdout, os.Stderr)
}

// SetOutput redirects the loggers, e.g. to silence them in tests.
func SetOutput(out, errOut io.Writer) {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	Info = log.New(out, color.GreenString("[INFO] "), flags)
	Warn = log.New(out, color.YellowString("[WARN] "), flags)
	Error = log.New(errOut, color.RedString("[ERROR] "), flags)
}
