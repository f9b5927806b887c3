package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess = 0 // Command completed
	ExitFailure = 1 // Invalid flag combination or runtime error
)

// UsageError indicates the command was invoked with an invalid flag
// combination (bad mode, judge without full mode) rather than failing at
// runtime. Both exit 1; the type keeps the distinction visible in errors
// and tests.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
}
