package main

import (
	"fmt"
	"os"

	"github.com/gtrak/mcp-cli/internal/mcperr"
)

func usageErrorf(format string, args ...interface{}) error {
	return mcperr.Usage(format, args...)
}

// exitCodeFor maps err to the documented exit code: 0 on nil, the
// mcperr-classified code when err carries one, 1 otherwise.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if me, ok := mcperr.As(err); ok {
		return me.ExitCode()
	}
	return 1
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCodeFor(err))
}
