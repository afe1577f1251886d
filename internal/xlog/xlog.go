/*
Package xlog provides a Logger interface and supporting functions to control
debug and diagnostic output.

The Logger interface is supported by the log.Logger type. If a Logger is nil,
the functions don't do anything, in particular no formatting takes place.
That makes it cheap to leave trace statements in the symbol decoder, where
they are executed for every symbol.
*/
package xlog

import "fmt"

// Logger is the interface required for output. The log.Logger type
// supports it.
type Logger interface {
	Output(calldepth int, s string) error
}

// Print outputs the arguments using the logger. If the logger is nil
// nothing will be printed.
func Print(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprint(v...))
	}
}

// Printf prints the arguments using the format string. If the logger
// argument is nil nothing will be printed.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Println prints the arguments and adds a newline. If the logger argument is
// nil nothing will be printed.
func Println(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintln(v...))
	}
}
