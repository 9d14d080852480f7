package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/forPelevin/vismanifest/internal/domain/prompts"
	"github.com/forPelevin/vismanifest/internal/types"
)

//go:embed sample_config.toml
var sampleConfig string

// Environment variables honoured on top of the file.
const (
	EnvConfig    = "VISMANIFEST_CONFIG"
	EnvOutDir    = "VISMANIFEST_OUT_DIR"
	EnvLogLevel  = "VISMANIFEST_LOG_LEVEL"
	EnvLogFormat = "VISMANIFEST_LOG_FORMAT"
)

// Paths locates the three input artifacts and the output root.
type Paths struct {
	Screenplay string `toml:"screenplay"`
	Shots      string `toml:"shots"`
	Roster     string `toml:"roster"`
	OutDir     string `toml:"out_dir"`
}

// Project names the manifest being built.
type Project struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
}

// Prompts tunes the prompt builder.
type Prompts struct {
	NegativeBase         string   `toml:"negative_base"`
	NegativeSettingExtra string   `toml:"negative_setting_extra"`
	ReferenceWidth       int      `toml:"reference_width"`
	ReferenceHeight      int      `toml:"reference_height"`
	FrameWidth           int      `toml:"frame_width"`
	FrameHeight          int      `toml:"frame_height"`
	CharacterAngles      []string `toml:"character_angles"`
	SettingAngles        []string `toml:"setting_angles"`
}

// Dispatch bounds how many clip chains run at once.
type Dispatch struct {
	MaxParallel int `toml:"max_parallel"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vismanifest.
type Config struct {
	Paths    Paths            `toml:"paths"`
	Project  Project          `toml:"project"`
	Style    types.StyleBible `toml:"style"`
	Prompts  Prompts          `toml:"prompts"`
	Dispatch Dispatch         `toml:"dispatch"`
	Logging  Logging          `toml:"logging"`
}

// PromptOptions converts the [prompts] and [style] sections for the builder.
func (c Config) PromptOptions() prompts.Options {
	return prompts.Options{
		Style:                  c.Style,
		NegativeBase:           c.Prompts.NegativeBase,
		NegativeSettingExtra:   c.Prompts.NegativeSettingExtra,
		ReferenceSize:          prompts.Size{Width: c.Prompts.ReferenceWidth, Height: c.Prompts.ReferenceHeight},
		FrameSize:              prompts.Size{Width: c.Prompts.FrameWidth, Height: c.Prompts.FrameHeight},
		DefaultCharacterAngles: c.Prompts.CharacterAngles,
		DefaultSettingAngles:   c.Prompts.SettingAngles,
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults and environment overrides still apply, and exists
// reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
