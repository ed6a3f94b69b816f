// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/ing-bank/zkflow-sub005/cmd/zkcodec/cli"
	"github.com/ing-bank/zkflow-sub005/lib/config"
	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/digest"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/ledger"
	"github.com/ing-bank/zkflow-sub005/lib/schemadef"
	"github.com/ing-bank/zkflow-sub005/lib/signing"
)

// globalParams are the flags every type-aware command accepts.
type globalParams struct {
	ConfigPath string `json:"config" flag:"config"   desc:"configuration file (default: $ZKCODEC_CONFIG, else built-in defaults)"`
	SchemaPath string `json:"schema" flag:"schema,s" desc:"schema file declaring custom types (overrides schema.path)"`
}

// workspace is everything a command needs to resolve type names:
// configuration, logger, ledger codecs, and the compiled schema.
type workspace struct {
	config   *config.Config
	logger   *slog.Logger
	registry *fixlen.Registry
	ledger   *ledger.Codecs
	schema   *schemadef.Schema
}

func (g globalParams) open(streams cli.Streams, command string) (*workspace, error) {
	var cfg *config.Config
	var err error
	if g.ConfigPath != "" {
		cfg, err = config.LoadFile(g.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}

	level, err := cli.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	logger := cli.NewCommandLogger(streams.Err, level).With("command", command)

	codecs, err := ledger.NewCodecs(ledger.Config{
		DigestAlgorithm: cfg.Ledger.DigestAlgorithm,
		SignatureScheme: cfg.Ledger.SignatureScheme,
	}, digest.Builtin(), signing.Builtin())
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	registry := fixlen.NewRegistry()
	if err := codecs.Register(registry); err != nil {
		return nil, cli.Internal("registering ledger codecs: %w", err)
	}

	ws := &workspace{config: cfg, logger: logger, registry: registry, ledger: codecs}

	schemaPath := g.SchemaPath
	if schemaPath == "" {
		schemaPath = cfg.Schema.Path
	}
	if schemaPath != "" {
		file, err := schemadef.ReadFile(schemaPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		} else if err != nil {
			return nil, cli.Validation("%w", err)
		}
		ws.schema, err = schemadef.Compile(file, registry)
		if err != nil {
			return nil, cli.Validation("%s: %w", schemaPath, err)
		}
	}

	logger.Debug("workspace ready",
		"schema", schemaPath,
		"digest_algorithm", codecs.Algorithm.Name,
		"signature_scheme", codecs.Scheme.Name,
	)
	return ws, nil
}

// codec resolves a type name against the schema, then the builtins.
func (w *workspace) codec(name string) (fixlen.Codec[any], error) {
	var codec fixlen.Codec[any]
	var err error
	if w.schema != nil {
		codec, err = w.schema.Codec(name)
	} else {
		codec, err = schemadef.Lookup(w.registry, name)
	}
	if err != nil {
		return nil, cli.NotFound("%w (run 'zkcodec types' to list known types)", err)
	}
	return codec, nil
}

// typeInfo is one row of `zkcodec types`.
type typeInfo struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Kind        string `json:"kind"`
	ByteSize    int    `json:"byte_size"`
	Fingerprint string `json:"fingerprint"`
}

func (w *workspace) types() ([]typeInfo, error) {
	var infos []typeInfo
	add := func(name, source string, d *descriptor.Descriptor) error {
		fingerprint, err := descriptor.FingerprintOf(d)
		if err != nil {
			return cli.Internal("fingerprinting %s: %w", name, err)
		}
		infos = append(infos, typeInfo{
			Name:        name,
			Source:      source,
			Kind:        d.Kind.String(),
			ByteSize:    d.ByteSize,
			Fingerprint: fingerprint.String(),
		})
		return nil
	}

	for _, entry := range w.registry.Entries() {
		if err := add(entry.Name, "builtin", entry.Codec.Descriptor()); err != nil {
			return nil, err
		}
	}
	if w.schema != nil {
		for _, name := range w.schema.Names() {
			codec, err := w.schema.Codec(name)
			if err != nil {
				return nil, cli.Internal("%w", err)
			}
			if err := add(name, "schema", codec.Descriptor()); err != nil {
				return nil, err
			}
		}
	}
	return infos, nil
}
