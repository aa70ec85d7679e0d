package config

import (
	"fmt"
	"os"
)

// Exitf prints a formatted message to stderr and terminates with a failure
// status. The server, decay, and seed binaries use it for startup errors;
// nothing calls it once a process is serving.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
