package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.TTS.Mode != "turbo" {
		t.Fatalf("unexpected default tts mode %q", cfg.TTS.Mode)
	}
	if cfg.Assembly.CaptionStyle != "shortform" {
		t.Fatalf("unexpected default caption style %q", cfg.Assembly.CaptionStyle)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.Join(dir, "out") + `"
cache_dir = "` + filepath.Join(dir, "cache") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[tts]
mode = "quality"
exaggeration = 1.2

[assembly]
caption_style = "classic"
font_size = 40
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.TTS.Mode != "quality" {
		t.Fatalf("tts mode not applied: %q", cfg.TTS.Mode)
	}
	if cfg.Assembly.FontSize != 40 {
		t.Fatalf("font size not applied: %d", cfg.Assembly.FontSize)
	}
	// Untouched sections keep defaults.
	if cfg.Transcription.Model != defaultTranscriptionModel {
		t.Fatalf("transcription model default lost: %q", cfg.Transcription.Model)
	}
}

func TestLoadRejectsBadTTSMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[tts]\nmode = \"hyper\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "tts.mode") {
		t.Fatalf("expected tts.mode error, got %v", err)
	}
}

func TestLoadRejectsOutOfRangeKnobs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[tts]\nexaggeration = 2.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for exaggeration out of range")
	}
}

func TestProviderKeyEnvFallback(t *testing.T) {
	t.Setenv("PEXELS_API_KEY", "env-key")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Providers.PexelsAPIKey != "env-key" {
		t.Fatalf("env fallback not applied: %q", cfg.Providers.PexelsAPIKey)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.OutputDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Fatalf("directory %q not created: %v", d, err)
		}
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/videos")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "videos") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[providers]") {
		t.Fatal("sample config missing providers section")
	}
}
