package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogWriters_RoutesStreams(t *testing.T) {
	var ops, diag, trace bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops, Diag: &diag, Trace: &trace})
	defer SetLogWriters(LogWriters{})

	Opsf("ops %d", 1)
	Diagf("diag %d", 2)
	Tracef("trace %d", 3)

	if !strings.Contains(ops.String(), "ops 1") || strings.Contains(ops.String(), "diag") {
		t.Errorf("ops stream = %q", ops.String())
	}
	if !strings.Contains(diag.String(), "diag 2") {
		t.Errorf("diag stream = %q", diag.String())
	}
	if !strings.Contains(trace.String(), "trace 3") {
		t.Errorf("trace stream = %q", trace.String())
	}
	if !strings.Contains(ops.String(), "[gridrebin]") {
		t.Errorf("expected [gridrebin] prefix, got %q", ops.String())
	}
}

func TestSetLogWriters_NilDisables(t *testing.T) {
	var diag bytes.Buffer
	SetLogWriters(LogWriters{Diag: &diag})
	defer SetLogWriters(LogWriters{})

	// Disabled streams must not panic.
	Opsf("dropped %d", 1)
	Tracef("dropped %d", 2)
	Diagf("kept")

	if got := diag.String(); !strings.Contains(got, "kept") || strings.Contains(got, "dropped") {
		t.Errorf("diag stream = %q", got)
	}
}

func TestNewLogger_Nil(t *testing.T) {
	if NewLogger("[x] ", nil) != nil {
		t.Error("NewLogger(nil) should return nil")
	}
}
