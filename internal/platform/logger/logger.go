package logger

import (
	"log"
	"os"
)

var (
	infoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	warnLogger  = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

func Info(msg string, v ...interface{}) {
	infoLogger.Printf(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	warnLogger.Printf(msg, v...)
}

// Error appends err to the formatted message when it is non-nil.
func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		errorLogger.Printf(msg+": %v", append(v, err)...)
		return
	}
	errorLogger.Printf(msg, v...)
}
