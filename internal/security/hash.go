// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a plaintext password into a one-way credential hash and checks
// candidates against it. Verify must not leak timing information about how
// much of the candidate matched. Hash is only deterministic for SHA256Hasher;
// bcrypt salts every hash, so compare credentials with Verify, never by hash
// equality.
type Hasher interface {
	Hash(pw Secret) (string, error)
	Verify(hash string, pw Secret) bool
}

// Hashing schemes accepted by NewHasher.
const (
	SchemeBcrypt = "bcrypt"
	SchemeSHA256 = "sha256"
)

// NewHasher returns the hasher for a configured scheme. An empty scheme means
// bcrypt, whose output differs on every call for the same password; choose
// SchemeSHA256 when hashes must be reproducible. cost is only used by bcrypt.
func NewHasher(scheme string, cost int) (Hasher, error) {
	switch strings.ToLower(scheme) {
	case "", SchemeBcrypt:
		return NewBcryptHasher(cost), nil
	case SchemeSHA256:
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hash scheme %q", scheme)
	}
}

// BcryptHasher hashes with bcrypt. It still verifies legacy SHA-256 hex
// hashes so documents written by older releases keep working.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements Hasher.
func (h *BcryptHasher) Hash(pw Secret) (string, error) {
	var out []byte
	err := pw.Use(func(b []byte) error {
		var err error
		out, err = bcrypt.GenerateFromPassword(b, h.cost)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

// Verify implements Hasher.
func (h *BcryptHasher) Verify(hash string, pw Secret) bool {
	if IsLegacyHash(hash) {
		return SHA256Hasher{}.Verify(hash, pw)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), pw) == nil
}

// SHA256Hasher is the unsalted, deterministic scheme used by the first
// releases: the lowercase hex SHA-256 of the password.
type SHA256Hasher struct{}

// Hash implements Hasher.
func (SHA256Hasher) Hash(pw Secret) (string, error) {
	sum := sha256.Sum256(pw)
	return hex.EncodeToString(sum[:]), nil
}

// Verify implements Hasher. The full digest is compared in constant time.
func (SHA256Hasher) Verify(hash string, pw Secret) bool {
	sum := sha256.Sum256(pw)
	want := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(want)) == 1
}

// IsLegacyHash reports whether hash looks like a SHA-256 hex digest.
func IsLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
