package services_test

import (
	"errors"
	"strings"
	"testing"

	"presser/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "recompress", "flac", "encode failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"recompress", "flac", "encode failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "acquire", "diff", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestFatalToBatch(t *testing.T) {
	cfgErr := services.Wrap(services.ErrConfiguration, "submit", "prepare", "api key missing", nil)
	if !services.FatalToBatch(cfgErr) {
		t.Fatal("expected configuration errors to stop the batch")
	}
	toolErr := services.Wrap(services.ErrAcquisition, "acquire", "qobuz-dl", "exit 1", nil)
	if services.FatalToBatch(toolErr) {
		t.Fatal("expected tool errors to keep the batch running")
	}
	if services.FatalToBatch(nil) {
		t.Fatal("nil is not fatal")
	}
}
