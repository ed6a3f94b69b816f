// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command zkcodec inspects, encodes, and decodes fixed-length binary
// values. Run "zkcodec --help" for the command list.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like check) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	return commands.Root(cli.StandardStreams()).Execute(os.Args[1:])
}
