// Command clashctl joins clash feed files and queries or aggregates clash
// collections offline, using the same pipeline as the service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
