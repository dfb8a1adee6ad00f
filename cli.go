package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/metcalfc/deck/internal/config"
	"github.com/metcalfc/deck/internal/deck"
	"github.com/metcalfc/deck/internal/logging"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is everything a frontend needs to present.
type app struct {
	cfg    *config.Config
	deck   *deck.Deck
	logger *zap.Logger
}

type presentFunc func(ctx context.Context, a *app) error

type options struct {
	configPath     string
	theme          string
	autoAdvance    time.Duration
	demo           bool
	recordingBlink time.Duration
	particles      int
	noConfetti     bool
	frameRate      int
	noMouse        bool
	remoteAddr     string
	logFile        string
	logLevel       string
	verbose        bool
}

func newRootCmd(present presentFunc) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "deck [file]",
		Short: "deck - keyboard-driven slide presenter",
		Long: `deck presents Markdown, YAML or EPUB slide decks in the terminal.
Run without a file to present the built-in course deck.

Controls:
  →/SPACE  next slide        ←  previous slide
  L        laser pointer     T  light/dark theme
  N        speaker notes     G  alignment grid
  1-9      answer quiz       R/X  run/reset demo
  P        pause auto-advance
  Q        quit`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, args, opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			return present(cmd.Context(), a)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", config.DefaultPath(), "config file")
	f.StringVar(&opts.logFile, "log-file", "", "log file (empty disables logging)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&opts.verbose, "verbose", false, "debug logging")

	// Presentation settings are persistent so "config show" reports them too.
	lf := cmd.PersistentFlags()
	lf.StringVar(&opts.theme, "theme", "", "initial theme: dark or light")
	lf.DurationVar(&opts.autoAdvance, "auto-advance", 0, "advance slides on this period (0 disables)")
	lf.BoolVar(&opts.demo, "demo", false, fmt.Sprintf("demo mode: auto-advance every %s", config.DemoAutoAdvance))
	lf.DurationVar(&opts.recordingBlink, "recording-blink", 0, "blink the REC indicator on this period (0 hides it)")
	lf.IntVar(&opts.particles, "particles", 0, "number of background particles")
	lf.BoolVar(&opts.noConfetti, "no-confetti", false, "disable the finale confetti")
	lf.IntVar(&opts.frameRate, "frame-rate", 0, "animation frames per second")
	lf.BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse tracking")
	lf.StringVar(&opts.remoteAddr, "remote", "", "serve the presenter remote on this address, e.g. :7070")

	cmd.AddCommand(newFormatsCmd(), newConfigCmd(opts))
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported deck formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range deck.SupportedFormats() {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			}
			if err := config.DefaultConfig().Save(opts.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil, opts)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

// loadConfig layers the config file, DECK_* variables and flags, in
// increasing precedence, then validates the result.
func loadConfig(cmd *cobra.Command, args []string, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ParseEnv(cfg); err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if len(args) > 0 {
		cfg.Deck = args[0]
	}
	if changed("theme") {
		cfg.Theme = opts.theme
	}
	if opts.demo && !changed("auto-advance") {
		cfg.AutoAdvance = config.DemoAutoAdvance
	}
	if changed("auto-advance") {
		cfg.AutoAdvance = opts.autoAdvance
	}
	if changed("recording-blink") {
		cfg.RecordingBlink = opts.recordingBlink
	}
	if changed("particles") {
		cfg.Effects.Particles = opts.particles
	}
	if opts.noConfetti {
		cfg.Effects.Confetti = false
	}
	if changed("frame-rate") {
		cfg.Effects.FrameRate = opts.frameRate
	}
	if opts.noMouse {
		cfg.Effects.Mouse = false
	}
	if changed("remote") {
		cfg.Remote.Addr = opts.remoteAddr
	}
	if changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string, opts *options) (*app, error) {
	cfg, err := loadConfig(cmd, args, opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level, opts.verbose)
	if err != nil {
		return nil, err
	}

	d, err := loadDeck(cfg.Deck)
	if err != nil {
		logger.Error("load deck", zap.String("deck", cfg.Deck), zap.Error(err))
		logger.Sync()
		return nil, err
	}
	logger.Info("deck loaded",
		zap.String("deck", cfg.Deck),
		zap.String("title", d.Title),
		zap.Int("total", d.Len()))

	return &app{cfg: cfg, deck: d, logger: logger}, nil
}

func loadDeck(path string) (*deck.Deck, error) {
	if path == "" {
		return deck.Builtin(), nil
	}
	d, err := deck.Load(path)
	if err != nil {
		if errors.Is(err, deck.ErrEmptyDeck) {
			return nil, fmt.Errorf("%s has no slides", path)
		}
		return nil, fmt.Errorf("failed to read deck '%s': %w", path, err)
	}
	return d, nil
}

func main() {
	if err := newRootCmd(present).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
