// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for codec packages.
//
// [RoundTrip] encodes a value, checks the encoding has exactly the
// descriptor's byte size, decodes it again, and returns the result.
// [RequireRoundTrip] additionally compares the decoded value with the
// original. [RequireFixedLength] encodes several values of one codec
// and fails unless every encoding has the same length.
//
// [RequireErrorIs] checks error chains against the sentinel errors the
// codec packages export.
//
// [WriteFile] writes fixture files into a per-test temporary directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable. Helpers accept the
// narrow interface{Helper; Fatalf} rather than *testing.T so they can
// be exercised by their own tests.
package testutil
