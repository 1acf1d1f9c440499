package config

import (
	"errors"
	"fmt"
)

var ttsModes = map[string]struct{}{
	"turbo":   {},
	"quality": {},
}

var transcriptionModels = map[string]struct{}{
	"small":          {},
	"medium":         {},
	"large":          {},
	"large-v3":       {},
	"large-v3-turbo": {},
}

var captionStyles = map[string]struct{}{
	"shortform": {},
	"classic":   {},
}

var captionPositions = map[string]struct{}{
	"top":    {},
	"center": {},
	"bottom": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateAssembly(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if _, ok := ttsModes[c.TTS.Mode]; !ok {
		return fmt.Errorf("tts.mode must be \"turbo\" or \"quality\", got %q", c.TTS.Mode)
	}
	if c.TTS.Exaggeration < 0 || c.TTS.Exaggeration > 1.5 {
		return errors.New("tts.exaggeration must be between 0.0 and 1.5")
	}
	if c.TTS.CFGWeight < 0 || c.TTS.CFGWeight > 1 {
		return errors.New("tts.cfg_weight must be between 0.0 and 1.0")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if _, ok := transcriptionModels[c.Transcription.Model]; !ok {
		return fmt.Errorf("transcription.model %q is not supported", c.Transcription.Model)
	}
	return nil
}

func (c *Config) validateAssembly() error {
	if _, ok := captionStyles[c.Assembly.CaptionStyle]; !ok {
		return fmt.Errorf("assembly.caption_style must be \"shortform\" or \"classic\", got %q", c.Assembly.CaptionStyle)
	}
	if _, ok := captionPositions[c.Assembly.Position]; !ok {
		return fmt.Errorf("assembly.position must be top, center, or bottom, got %q", c.Assembly.Position)
	}
	if c.Assembly.FontSize <= 0 {
		return errors.New("assembly.font_size must be positive")
	}
	return nil
}
