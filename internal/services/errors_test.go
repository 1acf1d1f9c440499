package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapIncludesStageContext(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrExternalTool, "assembly", "encode", "ffmpeg exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"assembly", "encode", "ffmpeg exited", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("message %q missing %q", msg, fragment)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "voice", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrValidation, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		err   error
		fatal bool
	}{
		{Wrap(ErrValidation, "voice", "", "empty text", nil), true},
		{Wrap(ErrExternalTool, "assembly", "", "", nil), true},
		{Wrap(ErrNotFound, "background", "", "no results", nil), false},
		{Wrap(ErrUnavailable, "background", "", "no api key", nil), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsFatal(tc.err); got != tc.fatal {
			t.Fatalf("IsFatal(%v) = %v, want %v", tc.err, got, tc.fatal)
		}
	}
}
