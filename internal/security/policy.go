// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrWeakPassword is returned when a password fails the PasswordPolicy.
var ErrWeakPassword = errors.New("password does not meet the strength policy")

// PasswordPolicy describes the minimum strength a new password must have.
type PasswordPolicy struct {
	MinLength     int  `mapstructure:"min_length" yaml:"min_length"`
	RequireDigit  bool `mapstructure:"require_digit" yaml:"require_digit"`
	RequireLetter bool `mapstructure:"require_letter" yaml:"require_letter"`
	RequireUpper  bool `mapstructure:"require_upper" yaml:"require_upper"`
	RequireSymbol bool `mapstructure:"require_symbol" yaml:"require_symbol"`
}

// DefaultPolicy returns {min_length: 8, require_digit: true, require_letter: true}.
func DefaultPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     8,
		RequireDigit:  true,
		RequireLetter: true,
	}
}

// Check returns nil when pw satisfies the policy, otherwise an error wrapping
// ErrWeakPassword that names every unmet rule.
func (p PasswordPolicy) Check(pw Secret) error {
	var missing []string

	if n := utf8.RuneCount(pw); n < p.MinLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", p.MinLength))
	}
	if len(pw) > MaxPasswordBytes {
		missing = append(missing, fmt.Sprintf("at most %d bytes", MaxPasswordBytes))
	}

	var digit, letter, upper, symbol bool
	for _, r := range string(pw) {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLetter(r):
			letter = true
			if unicode.IsUpper(r) {
				upper = true
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if p.RequireDigit && !digit {
		missing = append(missing, "a digit")
	}
	if p.RequireLetter && !letter {
		missing = append(missing, "a letter")
	}
	if p.RequireUpper && !upper {
		missing = append(missing, "an upper-case letter")
	}
	if p.RequireSymbol && !symbol {
		missing = append(missing, "a symbol")
	}

	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: needs %s", ErrWeakPassword, strings.Join(missing, ", "))
}
