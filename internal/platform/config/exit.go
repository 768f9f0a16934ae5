package config

import (
	"fmt"
	"io"
	"os"
)

var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// ExitOnError prints "<step>: <err>" to stderr and exits with status 1 when
// err is non-nil.
func ExitOnError(err error, step string) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s: %v\n", step, err)
	exit(1)
}
