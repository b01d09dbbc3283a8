package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTool()
	if err := c.normalizeUPX(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Language = strings.TrimSpace(c.Language)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTool() {
	c.Tool.Python = strings.TrimSpace(c.Tool.Python)
	if c.Tool.Python == "" {
		c.Tool.Python = defaultPython
	}
	c.Tool.Module = strings.TrimSpace(c.Tool.Module)
	if c.Tool.Module == "" {
		c.Tool.Module = defaultModule
	}
	if c.Tool.KillGraceSeconds == 0 {
		c.Tool.KillGraceSeconds = defaultKillGraceSeconds
	}
}

func (c *Config) normalizeUPX() error {
	c.UPX.BundledDir = strings.TrimSpace(c.UPX.BundledDir)
	if c.UPX.BundledDir == "" {
		return nil
	}
	expanded, err := expandPath(c.UPX.BundledDir)
	if err != nil {
		return fmt.Errorf("upx.bundled_dir: %w", err)
	}
	c.UPX.BundledDir = expanded
	return nil
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
