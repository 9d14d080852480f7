package config

import "github.com/forPelevin/vismanifest/internal/domain/prompts"

const (
	defaultConfigPath      = "~/.config/vismanifest/config.toml"
	projectConfigName      = "vismanifest.toml"
	defaultOutDir          = "out"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultReferenceWidth  = 1024
	defaultReferenceHeight = 1024
	defaultFrameWidth      = 1280
	defaultFrameHeight     = 720
	defaultMaxParallel     = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutDir: defaultOutDir,
		},
		Prompts: Prompts{
			NegativeBase:         prompts.DefaultNegative,
			NegativeSettingExtra: prompts.DefaultNegativeSetting,
			ReferenceWidth:       defaultReferenceWidth,
			ReferenceHeight:      defaultReferenceHeight,
			FrameWidth:           defaultFrameWidth,
			FrameHeight:          defaultFrameHeight,
			CharacterAngles:      []string{"front", "profile"},
			SettingAngles:        []string{"wide", "establishing"},
		},
		Dispatch: Dispatch{
			MaxParallel: defaultMaxParallel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
