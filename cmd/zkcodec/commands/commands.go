// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the zkcodec command tree.
package commands

import (
	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
)

// Root builds and returns the complete zkcodec command tree. Every
// command reads and writes through streams.
func Root(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name: "zkcodec",
		Description: `zkcodec: fixed-length binary codecs for ledger data.

Every value of a type encodes to the same number of bytes, whatever its
content, so encoded records can feed circuits with static layouts. Types
are the builtin ledger types (Party, SecureHash, TimeWindow, ...) plus
whatever a schema file declares.`,
		HelpOutput: streams.Err,
		Subcommands: []*cli.Command{
			typesCommand(streams),
			describeCommand(streams),
			checkCommand(streams),
			encodeCommand(streams),
			decodeCommand(streams),
			packCommand(streams),
			unpackCommand(streams),
		},
	}
}
