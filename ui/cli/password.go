// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stokwell/stokwell/internal/i18n"
	"github.com/stokwell/stokwell/internal/security"
	"golang.org/x/term"
)

// passwordReader yields passwords from a flag, the terminal or piped stdin,
// in that order. One reader serves all prompts of a command so buffered
// stdin lines are not lost between them.
type passwordReader struct {
	cmd   *cobra.Command
	lines *bufio.Reader
}

func newPasswordReader(cmd *cobra.Command) *passwordReader {
	return &passwordReader{cmd: cmd, lines: bufio.NewReader(cmd.InOrStdin())}
}

// read returns the value of flag when it was given, otherwise prompts.
func (r *passwordReader) read(flag, promptID string) (security.Secret, error) {
	if f := r.cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return security.FromString(f.Value.String()), nil
	}

	fmt.Fprint(r.cmd.ErrOrStderr(), i18n.T(promptID))
	if f, ok := r.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("could not read password: %w", err)
		}
		return security.FromBytes(b), nil
	}

	line, err := r.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("could not read password: %w", err)
	}
	return security.FromString(strings.TrimRight(line, "\r\n")), nil
}
