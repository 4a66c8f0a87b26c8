package questionbank

import "log"

var verboseMode bool

// SetVerbose turns request and workflow tracing on or off
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// Verbose reports whether tracing is enabled
func Verbose() bool {
	return verboseMode
}

// VerboseLog logs only when verbose mode is enabled
func VerboseLog(format string, v ...interface{}) {
	if verboseMode {
		log.Printf(format, v...)
	}
}
