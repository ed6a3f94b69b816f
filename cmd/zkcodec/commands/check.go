// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/pflag"

	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/schemadef"
)

type checkParams struct {
	ConfigPath string `json:"config" flag:"config" desc:"configuration file selecting ledger algorithms"`
	cli.JSONOutput
}

// checkResult is the --json output of check.
type checkResult struct {
	Path   string        `json:"path"`
	Valid  bool          `json:"valid"`
	Issues []string      `json:"issues"`
	Types  []checkedType `json:"types,omitempty"`
}

type checkedType struct {
	Name     string `json:"name"`
	ByteSize int    `json:"byte_size"`
}

func checkCommand(streams cli.Streams) *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Validate a schema file",
		Description: `Parse and validate a schema file, then compile it and verify that every
declared type's descriptor sizes are consistent. Issues are printed one
per line and the command exits 1 when there are any.`,
		Usage: "zkcodec check <schema-file> [flags]",
		Examples: []cli.Example{
			{Description: "Check a schema before committing it", Command: "zkcodec check transfer.jsonc"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("check", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("check takes exactly one schema file")
			}
			path := args[0]

			ws, err := globalParams{ConfigPath: params.ConfigPath}.open(streams, "check")
			if err != nil {
				return err
			}

			file, err := schemadef.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				return cli.NotFound("%w", err)
			}
			result := checkResult{Path: path}
			if err != nil {
				result.Issues = []string{err.Error()}
			} else {
				result.Issues = schemadef.Validate(file, ws.registry)
			}

			if len(result.Issues) == 0 {
				schema, err := schemadef.Compile(file, ws.registry)
				if err != nil {
					result.Issues = append(result.Issues, err.Error())
				} else {
					for _, name := range schema.Names() {
						codec, _ := schema.Codec(name)
						if err := descriptor.Verify(codec.Descriptor(), nil); err != nil {
							result.Issues = append(result.Issues, fmt.Sprintf("type %q: %v", name, err))
						}
						result.Types = append(result.Types, checkedType{Name: name, ByteSize: codec.Descriptor().ByteSize})
					}
				}
			}
			result.Valid = len(result.Issues) == 0

			if done, err := params.EmitJSON(streams.Out, result); done {
				if err != nil {
					return err
				}
			} else if result.Valid {
				fmt.Fprintf(streams.Out, "%s: ok\n", path)
				for _, checked := range result.Types {
					fmt.Fprintf(streams.Out, "  %s\t%d bytes\n", checked.Name, checked.ByteSize)
				}
			} else {
				for _, issue := range result.Issues {
					fmt.Fprintf(streams.Out, "%s: %s\n", path, issue)
				}
			}

			if !result.Valid {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
