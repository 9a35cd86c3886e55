// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"bytes"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// TestLoggingHelpers_WriteToBuffer verifies the package helper functions write
// formatted messages to the package-level logger `L`. The test swaps `L` with
// a buffer-backed logger and restores it afterwards.
func TestLoggingHelpers_WriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	defer func() { L = prev }()
	SetDebug(true)

	Debugf("hello %s", "dbg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("err %v", "E")

	out := buf.String()
	for _, want := range []string{"hello dbg", "info 1", "warn", "err E"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output; got: %s", want, out)
		}
	}
}

func TestSetDebugFalse_SuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	defer func() { L = prev }()

	SetDebug(false)
	Debugf("hidden")
	Infof("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug output should be suppressed; got: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("info output missing; got: %s", out)
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(nil)
	defer func() { L = prev }()

	SetOutput(&buf)
	Infof("redirected")
	if !strings.Contains(buf.String(), "redirected") {
		t.Fatalf("expected output in buffer; got: %s", buf.String())
	}
}
