// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for zkcodec.
//
// Configuration comes from a single file named by either the
// ZKCODEC_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). When neither is given, [Default] applies. There is
// no ~/.config discovery and no automatic file search, and environment
// variables never override values set in the file.
//
// The file may carry environment-specific sections (development,
// production) that override base values when [Config].Environment
// matches. Production defaults are quieter: logging drops to warn
// unless the file says otherwise.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${ZKCODEC_ROOT}, and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Schema, Ledger, Output, Logging
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other zkcodec packages.
package config
