// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger defines the value types exchanged by ledger
// transactions and their fixed-length codecs: party names and parties,
// public keys, secure hashes, state references, instants, durations,
// time windows, attachment constraints, unique identifiers, currencies,
// and amounts.
//
// Every codec is composed from package fixlen; nothing here writes
// bytes directly. The hash algorithm and signature scheme are chosen
// once, in [Config], when [NewCodecs] builds the codec set. They are
// part of the layout, not of the payload, so bytes encoded under one
// configuration can only be decoded under the same configuration.
//
//	codecs, err := ledger.NewCodecs(ledger.DefaultConfig(), digest.Builtin(), signing.Builtin())
//	data, err := fixlen.Marshal(codecs.Party, party)
package ledger
