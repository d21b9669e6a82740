package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// capture routes log output to a buffer for the duration of the test.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Fatal("expected quiet mode")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("expected verbose mode after SetVerbose(true)")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func()
		want    string
	}{
		{"debug verbose", true, func() { Debug("parsed %d meshes", 3) }, "[DEBUG] parsed 3 meshes\n"},
		{"debug quiet", false, func() { Debug("parsed %d meshes", 3) }, ""},
		{"info verbose", true, func() { Info("listening on %s", "127.0.0.1:8765") }, "[INFO] listening on 127.0.0.1:8765\n"},
		{"info quiet", false, func() { Info("listening") }, ""},
		{"warn verbose", true, func() { Warn("reload %s: %v", "/m", "gone") }, "[WARN] reload /m: gone\n"},
		{"warn quiet", false, func() { Warn("reload") }, ""},
		{"error verbose", true, func() { Error("watch failed") }, "[ERROR] watch failed\n"},
		{"error quiet", false, func() { Error("watch failed") }, "[ERROR] watch failed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			tt.log()
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWith_AddsFields(t *testing.T) {
	buf := capture(t, true)

	With(zap.String("model", "Duck.gltf"), zap.Int("assets", 2)).Info("model ready")

	got := buf.String()
	if !strings.HasPrefix(got, "[INFO] model ready") {
		t.Errorf("unexpected prefix: %q", got)
	}
	for _, want := range []string{`"model": "Duck.gltf"`, `"assets": 2`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %q", want, got)
		}
	}
}

func TestSetOutput_SwapsWriter(t *testing.T) {
	first := capture(t, true)
	Info("one")

	var second bytes.Buffer
	SetOutput(&second)
	Info("two")

	if first.String() != "[INFO] one\n" {
		t.Errorf("first writer got %q", first.String())
	}
	if second.String() != "[INFO] two\n" {
		t.Errorf("second writer got %q", second.String())
	}
}

func TestL_NotNil(t *testing.T) {
	if L() == nil {
		t.Fatal("expected a logger")
	}
}
