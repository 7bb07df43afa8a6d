// Package main provides the entry point for the narrate CLI, which renders
// audio scripts to WAV files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sylm54/narrate/assets"
	"github.com/sylm54/narrate/progress"
	"github.com/sylm54/narrate/tts"
	"github.com/sylm54/narrate/tts/engines/mock"
	"github.com/sylm54/narrate/tts/engines/proc"
	"github.com/sylm54/narrate/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	outputDir  string
	title      string
	voiceName  string
	speed      float64
	engineName string
	soundsDir  string
	dataDir    string

	rootCmd = &cobra.Command{
		Use:   "narrate [SCRIPT]",
		Short: "Turn audio scripts into narrated WAV files",
		Long: paragraph(
			fmt.Sprintf("\nRender an %s to a finished WAV file: narration, sound effects, pauses, and audio effects, composed in script order.", keyword("audio script")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	outputDir = viper.GetString("output")
	title = viper.GetString("title")
	voiceName = viper.GetString("voice")
	speed = viper.GetFloat64("speed")
	engineName = viper.GetString("engine")
	soundsDir = viper.GetString("sounds_dir")
	dataDir = viper.GetString("data_dir")
	return nil
}

// scriptFromArg reads the script text from a file argument, or from stdin
// when the argument is "-" or input is piped.
func scriptFromArg(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		if len(args) == 0 {
			if piped, err := stdinIsPipe(); err != nil {
				return "", err
			} else if !piped {
				return "", errors.New("missing script: pass a file or pipe script text on stdin")
			}
		}
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(utils.ExpandPath(args[0]))
	if err != nil {
		return "", fmt.Errorf("unable to open script: %w", err)
	}
	return string(b), nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(cmd *cobra.Command, args []string) error {
	text, err := scriptFromArg(args)
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	gen, cleanup, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	path, err := gen.Generate(cmd.Context(), tts.Job{
		Script: text,
		Title:  title,
		Voice:  cfg.Voice,
		Speed:  cfg.Speed,
	})
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

// buildConfig layers configuration: env defaults, then the config file, then
// command line flags. Flags win because viper binds them over file values.
func buildConfig() (tts.Config, error) {
	cfg, err := env.ParseAs[tts.Config]()
	if err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}

	if engineName != "" {
		cfg.Engine = engineName
	}
	if voiceName != "" {
		cfg.Voice = voiceName
	}
	if speed != 0 {
		cfg.Speed = speed
	}
	if soundsDir != "" {
		cfg.SoundsDir = utils.ExpandPath(soundsDir)
	}
	if dataDir != "" {
		cfg.DataDir = utils.ExpandPath(dataDir)
	}
	if outputDir != "" {
		cfg.OutputDir = utils.ExpandPath(outputDir)
	}
	if v := viper.GetString("model_repo"); v != "" {
		cfg.ModelRepo = v
	}
	if v := viper.GetInt("sample_rate"); v != 0 {
		cfg.SampleRate = v
	}

	if cfg.DataDir == "" {
		scope := gap.NewScope(gap.User, "narrate")
		dirs, err := scope.DataDirs()
		if err != nil || len(dirs) == 0 {
			return cfg, fmt.Errorf("could not resolve data directory: %w", err)
		}
		cfg.DataDir = dirs[0]
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildGenerator wires the engine, narrator, sound library, and asset
// manager for one run. The returned cleanup closes the engine.
func buildGenerator(cfg tts.Config) (*tts.Generator, func(), error) {
	modelDir := filepath.Join(cfg.DataDir, "models")
	voiceDir := filepath.Join(cfg.DataDir, "voices")

	var engine tts.Synthesizer
	var fetcher tts.AssetFetcher
	switch cfg.Engine {
	case "proc":
		engine = proc.New(cfg.Proc, cfg.SampleRate)
		fetcher = &assets.Manager{
			BaseURL:  cfg.ModelRepo,
			ModelDir: modelDir,
			VoiceDir: voiceDir,
			Notify:   logNotifier,
		}
	case "mock":
		engine = mock.New(cfg.Mock, cfg.SampleRate)
	default:
		return nil, nil, fmt.Errorf("unknown engine: %s", cfg.Engine)
	}

	narrator := tts.NewNarrator(engine, voiceDir)
	sounds := &assets.SoundLibrary{
		SoundsDir:   cfg.SoundsDir,
		ResourceDir: cfg.ResourceDir,
		TargetRate:  cfg.SampleRate,
	}

	gen := tts.NewGenerator(narrator, sounds, fetcher, cfg.OutputDir, logNotifier)
	cleanup := func() {
		if err := narrator.Close(); err != nil {
			log.Warn("Error closing engine", "error", err)
		}
	}
	return gen, cleanup, nil
}

// logNotifier surfaces progress events through the logger.
var logNotifier progress.Notifier = func(e progress.Event) {
	log.Info(e.Message, "job", e.JobID, "stage", e.Stage, "progress", fmt.Sprintf("%.0f%%", e.Progress*100))
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to write the WAV file into")
	rootCmd.Flags().StringVar(&title, "title", "", "output filename stem (defaults to the job id)")
	rootCmd.Flags().StringVar(&voiceName, "voice", "", "narration voice (female, female2, male, male2)")
	rootCmd.Flags().Float64Var(&speed, "speed", 0, "narration speed (0.5 to 2.0)")
	rootCmd.Flags().StringVar(&engineName, "engine", "", "speech engine (mock, proc)")
	rootCmd.Flags().StringVar(&soundsDir, "sounds-dir", "", "directory with custom sound effect files")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for downloaded model and voice files")

	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("title", rootCmd.Flags().Lookup("title"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("speed", rootCmd.Flags().Lookup("speed"))
	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("sounds_dir", rootCmd.Flags().Lookup("sounds-dir"))
	_ = viper.BindPFlag("data_dir", rootCmd.Flags().Lookup("data-dir"))

	viper.SetDefault("voice", "")
	viper.SetDefault("speed", 0.0)
	viper.SetDefault("engine", "")

	rootCmd.AddCommand(configCmd, manCmd, playCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "narrate")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "narrate")}, dirs...)
	}

	if c := os.Getenv("NARRATE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("narrate")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("narrate")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "narrate.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
