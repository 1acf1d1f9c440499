package language

import (
	"strings"
	"testing"
)

func TestNormalizeAcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"fr", "fr"},
		{"FR", "fr"},
		{"fr-FR", "fr"},
		{"fra", "fr"},
		{"french", "fr"},
		{"pt-BR", "pt"},
		{"English", "en"},
		{"zh-Hans", "zh"},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRejectsUnsupported(t *testing.T) {
	for _, in := range []string{"", "xx", "klingon", "is"} {
		if _, err := Normalize(in); err == nil {
			t.Fatalf("Normalize(%q) expected error", in)
		}
	}
	_, err := Normalize("xx")
	if !strings.Contains(err.Error(), "supported") {
		t.Fatalf("error should list supported codes: %v", err)
	}
}

func TestSupportedSorted(t *testing.T) {
	codes := Supported()
	if len(codes) != 23 {
		t.Fatalf("expected 23 supported languages, got %d", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted at %d: %v", i, codes)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if DisplayName("fr") != "French" {
		t.Fatal("unexpected display name for fr")
	}
	if DisplayName("xx") != "xx" {
		t.Fatal("unknown code should pass through")
	}
}
