// Command posctl runs maintenance tasks against the restaurant POS database:
// schema migration, admin bootstrap, menu import, report export and demo data.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
