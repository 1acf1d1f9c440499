package main

import (
	"log/slog"
	"strings"
	"sync"

	"voxreel/internal/config"
	"voxreel/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var loggerErr error
	c.loggerOnce.Do(func() {
		c.logger, loggerErr = logging.NewFromConfig(cfg)
	})
	if loggerErr != nil {
		return nil, loggerErr
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	return c.logger, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
