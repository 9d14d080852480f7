package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePrompts()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvOutDir)); v != "" {
		c.Paths.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.Screenplay, err = expandPath(strings.TrimSpace(c.Paths.Screenplay)); err != nil {
		return fmt.Errorf("paths.screenplay: %w", err)
	}
	if c.Paths.Shots, err = expandPath(strings.TrimSpace(c.Paths.Shots)); err != nil {
		return fmt.Errorf("paths.shots: %w", err)
	}
	if c.Paths.Roster, err = expandPath(strings.TrimSpace(c.Paths.Roster)); err != nil {
		return fmt.Errorf("paths.roster: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutDir) == "" {
		c.Paths.OutDir = defaultOutDir
	}
	if c.Paths.OutDir, err = expandPath(strings.TrimSpace(c.Paths.OutDir)); err != nil {
		return fmt.Errorf("paths.out_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePrompts() {
	c.Prompts.NegativeBase = strings.TrimSpace(c.Prompts.NegativeBase)
	c.Prompts.NegativeSettingExtra = strings.TrimSpace(c.Prompts.NegativeSettingExtra)
	c.Prompts.CharacterAngles = trimAll(c.Prompts.CharacterAngles)
	c.Prompts.SettingAngles = trimAll(c.Prompts.SettingAngles)
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

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
