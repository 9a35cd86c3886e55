// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Stokwell using Cobra.
// It wires configuration, the record store and the ledger coordinator, and
// provides commands that delegate every rule to internal/ledger. CLI code
// stays thin: parse arguments, call the coordinator, print the result.
package cli
