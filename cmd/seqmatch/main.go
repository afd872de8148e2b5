// Package main provides the entry point for the seqmatch CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/seqmatch/cmd/seqmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
