// Package main is the entry point of the ledger engine.
package main

import (
	"os"

	"github.com/SscSPs/ledger_engine/cmd/ledger_engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
