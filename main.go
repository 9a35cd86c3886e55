// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Stokwell.
//
// Usage:
//
//	go run . [flags]
//	./stokwell [flags]
//
// This launches the Stokwell CLI. See --help for options.
package main

import (
	"os"

	"github.com/stokwell/stokwell/ui/cli"
)

func main() {
	// Execute already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
