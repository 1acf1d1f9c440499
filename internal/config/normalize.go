package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProviders()
	c.normalizeTTS()
	c.normalizeTranscription()
	c.normalizeAssembly()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProviders() {
	// A .env in the working directory is honored before falling back to the
	// process environment. Missing file is not an error.
	_ = godotenv.Load()

	c.Providers.PexelsAPIKey = strings.TrimSpace(c.Providers.PexelsAPIKey)
	if c.Providers.PexelsAPIKey == "" {
		if value, ok := os.LookupEnv("PEXELS_API_KEY"); ok {
			c.Providers.PexelsAPIKey = strings.TrimSpace(value)
		}
	}
	c.Providers.PixabayAPIKey = strings.TrimSpace(c.Providers.PixabayAPIKey)
	if c.Providers.PixabayAPIKey == "" {
		if value, ok := os.LookupEnv("PIXABAY_API_KEY"); ok {
			c.Providers.PixabayAPIKey = strings.TrimSpace(value)
		}
	}
	if c.Providers.RequestTimeout <= 0 {
		c.Providers.RequestTimeout = defaultProviderRequestTimeout
	}
	if c.Providers.DownloadTimeout <= 0 {
		c.Providers.DownloadTimeout = defaultProviderDownloadTimeout
	}
	if c.Providers.ResultsPerQuery <= 0 {
		c.Providers.ResultsPerQuery = defaultProviderResultsPerQuery
	}
	if c.Providers.MinVideoSeconds < 0 {
		c.Providers.MinVideoSeconds = defaultProviderMinVideoSeconds
	}
}

func (c *Config) normalizeTTS() {
	c.TTS.Mode = strings.ToLower(strings.TrimSpace(c.TTS.Mode))
	if c.TTS.Mode == "" {
		c.TTS.Mode = defaultTTSMode
	}
	if c.TTS.Timeout <= 0 {
		c.TTS.Timeout = defaultTTSTimeout
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.ToLower(strings.TrimSpace(c.Transcription.Model))
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	if c.Transcription.Timeout <= 0 {
		c.Transcription.Timeout = defaultTranscriptionTimeout
	}
}

func (c *Config) normalizeAssembly() {
	c.Assembly.Position = strings.ToLower(strings.TrimSpace(c.Assembly.Position))
	if c.Assembly.Position == "" {
		c.Assembly.Position = defaultPosition
	}
	c.Assembly.CaptionStyle = strings.ToLower(strings.TrimSpace(c.Assembly.CaptionStyle))
	if c.Assembly.CaptionStyle == "" {
		c.Assembly.CaptionStyle = defaultCaptionStyle
	}
	c.Assembly.FontColor = strings.TrimSpace(c.Assembly.FontColor)
	if c.Assembly.FontColor == "" {
		c.Assembly.FontColor = defaultFontColor
	}
	c.Assembly.OutlineColor = strings.TrimSpace(c.Assembly.OutlineColor)
	if c.Assembly.OutlineColor == "" {
		c.Assembly.OutlineColor = defaultOutlineColor
	}
	if c.Assembly.FontSize <= 0 {
		c.Assembly.FontSize = defaultFontSize
	}
	if c.Assembly.OutlineWidth < 0 {
		c.Assembly.OutlineWidth = defaultOutlineWidth
	}
	if c.Assembly.Timeout <= 0 {
		c.Assembly.Timeout = defaultAssemblyTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("VOXREEL_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
