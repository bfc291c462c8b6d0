// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Scriptum.
//
// Usage:
//
//	go run . [flags]
//	./scriptum [flags]
//
// Running without arguments launches the interactive tutor. See --help
// for the scripted commands.
package main

import (
	"os"

	"github.com/scriptum/scriptum/ui/cli"
)

func main() {
	// Cobra has already printed the error at this point.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
