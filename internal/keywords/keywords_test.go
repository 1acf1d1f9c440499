package keywords

import (
	"reflect"
	"testing"
)

func TestExtractRanksByFrequency(t *testing.T) {
	text := "Mountain sunrise. The mountain glows while hikers watch the sunrise over the mountain."
	got := Extract(text, 3)
	want := []string{"mountain", "sunrise", "glows"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}

func TestExtractTieBreakFirstOccurrence(t *testing.T) {
	got := Extract("ocean forest desert", 3)
	want := []string{"ocean", "forest", "desert"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}

func TestExtractRespectsMax(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel"
	if got := Extract(text, 2); len(got) != 2 {
		t.Fatalf("expected 2 keywords, got %v", got)
	}
}

func TestExtractDefaultsMax(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel"
	if got := Extract(text, 0); len(got) != DefaultMax {
		t.Fatalf("expected %d keywords, got %v", DefaultMax, got)
	}
}

func TestExtractDropsStopwordsAndShortTokens(t *testing.T) {
	text := "the very big cat ran to a sunny meadow dans la forêt"
	for _, kw := range Extract(text, 10) {
		if IsStopword(kw) {
			t.Fatalf("stopword leaked into keywords: %q", kw)
		}
		if len([]rune(kw)) < 4 {
			t.Fatalf("short token leaked into keywords: %q", kw)
		}
	}
}

func TestExtractEmptyInput(t *testing.T) {
	if got := Extract("", 5); len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
	if got := Extract("the and but", 5); len(got) != 0 {
		t.Fatalf("stopword-only input should be empty, got %v", got)
	}
}

func TestExtractUnicode(t *testing.T) {
	got := Extract("Montagne enneigée, montagne magnifique!", 2)
	want := []string{"montagne", "enneigée"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}
