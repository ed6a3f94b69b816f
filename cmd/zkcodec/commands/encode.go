// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"errors"

	"github.com/spf13/pflag"

	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/schemadef"
)

type encodeParams struct {
	globalParams
	Output string `json:"output" flag:"output,o" choices:"hex,base64,raw" desc:"byte encoding of the result (default: output.encoding from config)"`
}

func encodeCommand(streams cli.Streams) *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Encode a JSON value as fixed-length bytes",
		Description: `Read one JSON value from stdin (or a file argument) and write its
fixed-length encoding. The output always has the type's byte size,
whatever the value holds; bytes are printed as hex by default.

Numbers keep full precision. Byte strings are hex, maps are lists of
[key, value] pairs, and absent nullable values are null.`,
		Usage: "zkcodec encode <type> [file] [flags]",
		Examples: []cli.Example{
			{Description: "Encode a currency code", Command: `echo '"EUR"' | zkcodec encode Currency`},
			{Description: "Encode a schema type as raw bytes", Command: "zkcodec encode Transfer transfer.json -s transfer.jsonc -o raw > transfer.bin"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Run: func(args []string) error {
			data, args, err := streams.ReadInput(args)
			if err != nil {
				return err
			}
			if len(args) != 1 {
				return cli.Validation("encode takes one type name and an optional file")
			}
			ws, err := params.open(streams, "encode")
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
			encoded, err := fixlen.Marshal(codec, value)
			if err != nil {
				return codecError("encoding "+args[0], err)
			}
			ws.logger.Debug("encoded", "type", args[0], "bytes", len(encoded))

			encoding := params.Output
			if encoding == "" {
				encoding = ws.config.Output.Encoding
			}
			output, err := cli.EncodeBytes(encoded, encoding)
			if err != nil {
				return err
			}
			_, err = streams.Out.Write(output)
			return err
		},
	}
}

type decodeParams struct {
	globalParams
	Input string `json:"input" flag:"input,i" choices:"hex,base64,raw" desc:"byte encoding of the input (default: output.encoding from config)"`
}

func decodeCommand(streams cli.Streams) *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Decode fixed-length bytes to JSON",
		Description: `Read an encoded value from stdin (or a file argument) and print it as
JSON. The input must be exactly the type's byte size; anything shorter
or longer is rejected as malformed.`,
		Usage: "zkcodec decode <type> [file] [flags]",
		Examples: []cli.Example{
			{Description: "Round-trip a value", Command: `echo '"EUR"' | zkcodec encode Currency | zkcodec decode Currency`},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
		},
		Run: func(args []string) error {
			data, args, err := streams.ReadInput(args)
			if err != nil {
				return err
			}
			if len(args) != 1 {
				return cli.Validation("decode takes one type name and an optional file")
			}
			ws, err := params.open(streams, "decode")
			if err != nil {
				return err
			}
			codec, err := ws.codec(args[0])
			if err != nil {
				return err
			}

			encoding := params.Input
			if encoding == "" {
				encoding = ws.config.Output.Encoding
			}
			encoded, err := cli.DecodeBytes(data, encoding)
			if err != nil {
				return err
			}
			value, err := fixlen.Unmarshal(codec, encoded)
			if err != nil {
				return codecError("decoding "+args[0], err)
			}
			return writeValue(streams, value)
		},
	}
}

// codecError classifies codec failures: bad values and bad bytes are
// the caller's input, anything else is internal.
func codecError(action string, err error) error {
	for _, target := range []error{
		fixlen.ErrCapacityExceeded,
		fixlen.ErrLengthMismatch,
		fixlen.ErrMalformed,
		fixlen.ErrInvalidValue,
	} {
		if errors.Is(err, target) {
			return cli.Validation("%s: %w", action, err)
		}
	}
	return cli.Internal("%s: %w", action, err)
}

func writeValue(streams cli.Streams, value any) error {
	output, err := schemadef.MarshalValue(value)
	if err != nil {
		return cli.Internal("rendering JSON: %w", err)
	}
	_, err = streams.Out.Write(append(bytes.TrimRight(output, "\n"), '\n'))
	return err
}
