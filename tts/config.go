package tts

import (
	"fmt"
	"strings"
	"time"
)

// Config contains all narration configuration options.
type Config struct {
	// Synthesis settings
	Engine     string  `yaml:"engine" env:"NARRATE_ENGINE" envDefault:"mock"`
	SampleRate int     `yaml:"sample_rate" env:"NARRATE_SAMPLE_RATE" envDefault:"24000"`
	Voice      string  `yaml:"voice" env:"NARRATE_VOICE" envDefault:"female"`
	Speed      float64 `yaml:"speed" env:"NARRATE_SPEED" envDefault:"1.0"`

	// Asset settings
	ModelRepo   string `yaml:"model_repo" env:"NARRATE_MODEL_REPO" envDefault:"https://huggingface.co/Supertone/supertonic/resolve/main"`
	DataDir     string `yaml:"data_dir" env:"NARRATE_DATA_DIR"`
	SoundsDir   string `yaml:"sounds_dir" env:"NARRATE_SOUNDS_DIR"`
	ResourceDir string `yaml:"resource_dir" env:"NARRATE_RESOURCE_DIR"`
	OutputDir   string `yaml:"output_dir" env:"NARRATE_OUTPUT_DIR"`

	// Engine-specific configurations
	Proc ProcConfig `yaml:"proc"`
	Mock MockConfig `yaml:"mock"`
}

// ProcConfig contains subprocess engine specific settings. The engine shells
// out to an external synthesizer binary and reads a WAV stream from its
// standard output.
type ProcConfig struct {
	Binary  string        `yaml:"binary" env:"NARRATE_PROC_BINARY" envDefault:"supertonic"`
	Args    []string      `yaml:"args" env:"NARRATE_PROC_ARGS" envSeparator:" "`
	Timeout time.Duration `yaml:"timeout" env:"NARRATE_PROC_TIMEOUT" envDefault:"60s"`
}

// MockConfig contains mock engine specific settings for testing.
type MockConfig struct {
	SecondsPerWord float64 `yaml:"seconds_per_word" env:"NARRATE_MOCK_SECONDS_PER_WORD" envDefault:"0.3"`
	FailAlways     bool    `yaml:"fail_always" env:"NARRATE_MOCK_FAIL_ALWAYS" envDefault:"false"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:     "mock",
		SampleRate: 24000,
		Voice:      "female",
		Speed:      1.0,
		ModelRepo:  "https://huggingface.co/Supertone/supertonic/resolve/main",
		Proc:       DefaultProcConfig(),
		Mock:       DefaultMockConfig(),
	}
}

// DefaultProcConfig returns default subprocess engine configuration.
func DefaultProcConfig() ProcConfig {
	return ProcConfig{
		Binary:  "supertonic",
		Timeout: 60 * time.Second,
	}
}

// DefaultMockConfig returns default mock engine configuration.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		SecondsPerWord: 0.3,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validEngines := []string{"mock", "proc"}
	engineValid := false
	for _, e := range validEngines {
		if strings.EqualFold(c.Engine, e) {
			engineValid = true
			c.Engine = strings.ToLower(c.Engine)
			break
		}
	}
	if !engineValid {
		return fmt.Errorf("%w: invalid engine '%s': must be one of %v", ErrInvalidConfig, c.Engine, validEngines)
	}

	validSampleRates := []int{8000, 16000, 22050, 24000, 44100, 48000}
	sampleRateValid := false
	for _, sr := range validSampleRates {
		if c.SampleRate == sr {
			sampleRateValid = true
			break
		}
	}
	if !sampleRateValid {
		return fmt.Errorf("%w: %d: must be one of %v", ErrInvalidSampleRate, c.SampleRate, validSampleRates)
	}

	if _, ok := voiceFiles[strings.ToLower(c.Voice)]; !ok {
		return fmt.Errorf("%w: '%s': must be one of %v", ErrInvalidVoice, c.Voice, VoiceNames())
	}

	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %f", ErrInvalidConfig, c.Speed)
	}

	if c.ModelRepo == "" {
		return fmt.Errorf("%w: model_repo cannot be empty", ErrInvalidConfig)
	}

	if c.Engine == "proc" {
		if err := c.Proc.Validate(); err != nil {
			return fmt.Errorf("proc config: %w", err)
		}
	}
	return nil
}

// Validate checks if the subprocess engine configuration is valid.
func (c *ProcConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("%w: binary path cannot be empty", ErrInvalidConfig)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("%w: timeout must be at least 1 second, got %v", ErrInvalidConfig, c.Timeout)
	}
	return nil
}
