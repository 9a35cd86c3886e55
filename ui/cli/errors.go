// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"github.com/stokwell/stokwell/internal/i18n"
	"github.com/stokwell/stokwell/internal/ledger"
)

// inputError is a user-facing error whose text is already localized.
type inputError struct {
	msg string
	err error
}

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return e.err }

// Message renders err for the terminal. Ledger errors map to their localized
// text; anything else keeps its own message.
func Message(err error) string {
	switch kind := ledger.Kind(err); kind {
	case "":
		return ""
	case "internal":
		return err.Error()
	case "store_unavailable":
		return i18n.T("error."+kind) + " (" + err.Error() + ")"
	default:
		return i18n.T("error." + kind)
	}
}
