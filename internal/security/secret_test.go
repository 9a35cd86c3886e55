// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestSecretRedactionAndJSON(t *testing.T) {
	s := FromString("Secret123")
	if fmt.Sprintf("%v", s) != "[SECRET]" {
		t.Fatalf("unexpected fmt output: %q", fmt.Sprintf("%v", s))
	}
	if fmt.Sprintf("%s|%#v", s, s) != "[SECRET]|[SECRET]" {
		t.Fatalf("unexpected fmt output: %q", fmt.Sprintf("%s|%#v", s, s))
	}
	b, err := json.Marshal(struct{ P Secret }{s})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(b) != `{"P":"[SECRET]"}` {
		t.Fatalf("unexpected json marshal: %s", string(b))
	}
}

func TestSecretZero(t *testing.T) {
	s := FromString("abc123")
	(&s).Zero()
	b := s.Bytes()
	for i := range b {
		if b[i] != 0 {
			t.Fatalf("expected zeroed byte at index %d, got %d", i, b[i])
		}
	}
	var nilSecret *Secret
	nilSecret.Zero()
}

func TestFromBytesCopies(t *testing.T) {
	in := []byte("hunter22")
	s := FromBytes(in)
	in[0] = 'X'
	if string(s.Bytes()) != "hunter22" {
		t.Fatalf("FromBytes should copy input, got %q", string(s.Bytes()))
	}
	if s.Len() != 8 {
		t.Fatalf("unexpected length %d", s.Len())
	}
}
