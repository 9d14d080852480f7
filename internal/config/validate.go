package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePrompts(); err != nil {
		return err
	}
	if err := c.validateDispatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePrompts() error {
	if c.Prompts.ReferenceWidth <= 0 || c.Prompts.ReferenceHeight <= 0 {
		return errors.New("prompts.reference_width and prompts.reference_height must be positive")
	}
	if c.Prompts.FrameWidth <= 0 || c.Prompts.FrameHeight <= 0 {
		return errors.New("prompts.frame_width and prompts.frame_height must be positive")
	}
	if len(c.Prompts.CharacterAngles) == 0 {
		return errors.New("prompts.character_angles must list at least one angle")
	}
	if len(c.Prompts.SettingAngles) == 0 {
		return errors.New("prompts.setting_angles must list at least one angle")
	}
	return nil
}

func (c *Config) validateDispatch() error {
	if c.Dispatch.MaxParallel < 1 {
		return errors.New("dispatch.max_parallel must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
