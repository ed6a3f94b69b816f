// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
)

type typesParams struct {
	globalParams
	cli.JSONOutput
}

func typesCommand(streams cli.Streams) *cli.Command {
	var params typesParams

	return &cli.Command{
		Name:    "types",
		Summary: "List known types with their encoded sizes",
		Description: `List every type a name can refer to: the builtin ledger types, then
the types declared by the schema file, each with its kind, encoded size
in bytes, and descriptor fingerprint.`,
		Usage: "zkcodec types [flags]",
		Examples: []cli.Example{
			{Description: "List builtin types", Command: "zkcodec types"},
			{Description: "Include a schema's types, as JSON", Command: "zkcodec types --schema transfer.jsonc --json"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("types", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("types takes no arguments, got %q", args[0])
			}
			ws, err := params.open(streams, "types")
			if err != nil {
				return err
			}
			infos, err := ws.types()
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(streams.Out, infos); done {
				return err
			}

			tw := tabwriter.NewWriter(streams.Out, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "NAME\tSOURCE\tKIND\tBYTES\n")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", info.Name, info.Source, info.Kind, info.ByteSize)
			}
			return tw.Flush()
		},
	}
}
