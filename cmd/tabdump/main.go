// Command tabdump prints the headers and records of a CSV, TSV, JSON or
// Parquet file as an aligned table. Useful to confirm what the library
// reads from a file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tabdump: %v\n", err)
		os.Exit(1)
	}
}
