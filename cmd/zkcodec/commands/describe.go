// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/pflag"

	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

type describeParams struct {
	globalParams
	Format    string `json:"format"    flag:"format,f" default:"json" choices:"json,yaml,cbor,diag" desc:"output format"`
	Tree      bool   `json:"tree"      flag:"tree,t"   desc:"render the layout as a tree instead"`
	Normalize bool   `json:"normalize" flag:"normalize" desc:"factor named structs and enums into definitions"`
}

func describeCommand(streams cli.Streams) *cli.Command {
	var params describeParams

	return &cli.Command{
		Name:    "describe",
		Summary: "Print the layout descriptor of a type",
		Description: `Print the descriptor of a type: the tree of kinds, names, attributes,
and byte sizes that fixes its encoding. Circuit generators consume the
CBOR form; the fingerprint of a type is the BLAKE3-256 hash of it.

With --normalize, every named struct and enum below the root is emitted
once under "definitions" and referenced by name elsewhere.`,
		Usage: "zkcodec describe <type> [flags]",
		Examples: []cli.Example{
			{Description: "Show a builtin type as YAML", Command: "zkcodec describe Party --format yaml"},
			{Description: "Inspect the CBOR a generator reads", Command: "zkcodec describe Transfer -s transfer.jsonc --format diag"},
			{Description: "Draw the layout", Command: "zkcodec describe TimeWindow --tree"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("describe", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("describe takes exactly one type name")
			}
			ws, err := params.open(streams, "describe")
			if err != nil {
				return err
			}
			codec, err := ws.codec(args[0])
			if err != nil {
				return err
			}

			d := codec.Descriptor()
			if params.Tree {
				fmt.Fprintln(streams.Out, renderTree(d))
				return nil
			}

			var value any = d
			if params.Normalize {
				document, err := descriptor.Normalize(d)
				if err != nil {
					return cli.Validation("normalizing %s: %w", args[0], err)
				}
				value = document
			}
			output, err := formatDescriptor(value, params.Format)
			if err != nil {
				return err
			}
			_, err = streams.Out.Write(output)
			return err
		},
	}
}

func formatDescriptor(value any, format string) ([]byte, error) {
	switch format {
	case "json", "":
		data, err := descriptor.EncodeJSON(value)
		if err != nil {
			return nil, cli.Internal("%w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := descriptor.EncodeYAML(value)
		if err != nil {
			return nil, cli.Internal("%w", err)
		}
		return data, nil
	case "cbor", "diag":
		data, err := descriptor.EncodeCBOR(value)
		if err != nil {
			return nil, cli.Internal("%w", err)
		}
		if format == "cbor" {
			return data, nil
		}
		diagnostic, err := descriptor.Diagnose(data)
		if err != nil {
			return nil, cli.Internal("%w", err)
		}
		return []byte(diagnostic + "\n"), nil
	default:
		return nil, cli.Validation("unknown format %q", format)
	}
}

var (
	treeNameStyle   = lipgloss.NewStyle().Bold(true)
	treeKindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	treeSizeStyle   = lipgloss.NewStyle().Faint(true)
	treeBranchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderTree draws a descriptor as an indented tree, one node per
// line: element name, type name, kind, and byte size.
func renderTree(d *descriptor.Descriptor) string {
	return buildTree("", d).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(treeBranchStyle).
		String()
}

func buildTree(element string, d *descriptor.Descriptor) *tree.Tree {
	node := tree.Root(treeLabel(element, d))
	for _, child := range d.Elements {
		node.Child(buildTree(child.Name, child.Descriptor))
	}
	return node
}

func treeLabel(element string, d *descriptor.Descriptor) string {
	var label strings.Builder
	if element != "" {
		label.WriteString(element + ": ")
	}
	label.WriteString(treeNameStyle.Render(d.Name))
	label.WriteString(" " + treeKindStyle.Render(d.Kind.String()))
	if attributes := attributeSummary(d); attributes != "" {
		label.WriteString(" " + attributes)
	}
	label.WriteString(" " + treeSizeStyle.Render(fmt.Sprintf("%dB", d.ByteSize)))
	return label.String()
}

// attributeSummary renders attributes as sorted key=value pairs.
func attributeSummary(d *descriptor.Descriptor) string {
	if len(d.Attributes) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(d.Attributes))
	for key, value := range d.Attributes {
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, value))
	}
	sort.Strings(pairs)
	return "[" + strings.Join(pairs, " ") + "]"
}
