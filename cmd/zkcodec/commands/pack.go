// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
	"github.com/ing-bank/zkflow-sub005/lib/recordio"
	"github.com/ing-bank/zkflow-sub005/lib/schemadef"
)

type packParams struct {
	globalParams
	Output      string `json:"output"      flag:"output,o" desc:"record file to write (required)"`
	Compression string `json:"compression" flag:"compression,c" choices:"none,lz4,zstd" desc:"body compression (default: output.compression from config)"`
}

func packCommand(streams cli.Streams) *cli.Command {
	var params packParams

	return &cli.Command{
		Name:    "pack",
		Summary: "Write a JSON array of values as a record file",
		Description: `Read a JSON array from stdin (or a file argument), encode every element
with the named type, and write a record file: a header carrying the
record size, count, and descriptor fingerprint, followed by the
records. The body is compressed unless compression would not shrink it.`,
		Usage: "zkcodec pack <type> [file] --output <records> [flags]",
		Examples: []cli.Example{
			{Description: "Pack transfers", Command: "zkcodec pack Transfer transfers.json -s transfer.jsonc -o transfers.zkfr"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("pack", &params)
		},
		Run: func(args []string) error {
			data, args, err := streams.ReadInput(args)
			if err != nil {
				return err
			}
			if len(args) != 1 {
				return cli.Validation("pack takes one type name and an optional file")
			}
			if params.Output == "" {
				return cli.Validation("--output is required")
			}
			ws, err := params.open(streams, "pack")
			if err != nil {
				return err
			}
			codec, err := ws.codec(args[0])
			if err != nil {
				return err
			}

			value, err := schemadef.UnmarshalValue(data)
			if err != nil {
				return cli.Validation("parsing JSON input: %w", err)
			}
			records, ok := value.([]any)
			if !ok {
				return cli.Validation("pack input must be a JSON array, got %T", value)
			}

			name := params.Compression
			if name == "" {
				name = ws.config.Output.Compression
			}
			compression, err := recordio.ParseCompression(name)
			if err != nil {
				return cli.Validation("%w", err)
			}

			file, err := os.Create(params.Output)
			if err != nil {
				return cli.Internal("creating %s: %w", params.Output, err)
			}
			header, err := recordio.Write(file, codec, records, recordio.Options{
				Compression: compression,
				Logger:      ws.logger,
			})
			if closeErr := file.Close(); err == nil && closeErr != nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(params.Output)
				return codecError("packing "+args[0], err)
			}

			fmt.Fprintf(streams.Err, "%s: %d records of %d bytes (%s)\n",
				params.Output, header.Count, header.RecordSize, header.Compression)
			return nil
		},
	}
}

type unpackParams struct {
	globalParams
}

func unpackCommand(streams cli.Streams) *cli.Command {
	var params unpackParams

	return &cli.Command{
		Name:    "unpack",
		Summary: "Print the records of a record file as a JSON array",
		Description: `Read a record file written by "zkcodec pack" and print its records as a
JSON array. The file's descriptor fingerprint must match the named
type, so a file is never decoded with a layout it was not written with.`,
		Usage: "zkcodec unpack <type> <records> [flags]",
		Examples: []cli.Example{
			{Description: "Inspect packed transfers", Command: "zkcodec unpack Transfer transfers.zkfr -s transfer.jsonc"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("unpack", &params)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.Validation("unpack takes a type name and a record file")
			}
			ws, err := params.open(streams, "unpack")
			if err != nil {
				return err
			}
			codec, err := ws.codec(args[0])
			if err != nil {
				return err
			}

			file, err := os.Open(args[1])
			if errors.Is(err, os.ErrNotExist) {
				return cli.NotFound("%w", err)
			} else if err != nil {
				return cli.Internal("%w", err)
			}
			defer file.Close()

			records, _, err := recordio.Read(file, codec, recordio.Options{Logger: ws.logger})
			switch {
			case errors.Is(err, recordio.ErrFingerprintMismatch),
				errors.Is(err, recordio.ErrNotRecordFile),
				errors.Is(err, recordio.ErrUnsupportedVersion),
				errors.Is(err, recordio.ErrCorrupt):
				return cli.Validation("%s: %w", args[1], err)
			case err != nil:
				return codecError("unpacking "+args[1], err)
			}
			return writeValue(streams, records)
		},
	}
}
