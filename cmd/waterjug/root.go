package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/waterjug"
	"github.com/aretw0/waterjug/internal/config"
	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/internal/telemetry"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waterjug",
	Short: "Waterjug solves and explains the two-jug water puzzle",
	Long: `Waterjug finds the shortest sequence of fill, empty and pour moves that
measures a target amount with two jugs, and replays it step by step naming the
production rule behind every transition.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project directory holding .waterjug/config.yaml")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("trace", false, "Print OpenTelemetry spans to stderr")
	rootCmd.PersistentFlags().Bool("lenient", false, "Accept targets larger than both jugs (reported as unreachable)")
	rootCmd.PersistentFlags().Int("max-capacity", 0, "Largest accepted jug capacity (0 uses the config value)")
}

// settings bundles what every subcommand needs.
type settings struct {
	Dir    string
	Config *config.Config
	Logger *slog.Logger
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = "."
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	if cmd.Flags().Changed("lenient") {
		lenient, _ := cmd.Flags().GetBool("lenient")
		cfg.StrictTarget = !lenient
	}
	if n, _ := cmd.Flags().GetInt("max-capacity"); n > 0 {
		cfg.MaxCapacity = n
	}

	return &settings{Dir: dir, Config: cfg, Logger: logging.New(level)}, nil
}

// newEngine builds the facade from the settings and returns the tracer
// shutdown to defer.
func newEngine(cmd *cobra.Command, s *settings, opts ...waterjug.Option) (*waterjug.Engine, telemetry.ShutdownFunc, error) {
	traceOn, _ := cmd.Flags().GetBool("trace")
	tracer, shutdown, err := telemetry.Setup(os.Stderr, strings.TrimSpace(waterjug.Version), traceOn)
	if err != nil {
		return nil, nil, err
	}

	base := []waterjug.Option{
		waterjug.WithLogger(s.Logger),
		waterjug.WithMaxCapacity(s.Config.MaxCapacity),
		waterjug.WithStrictTarget(s.Config.StrictTarget),
		waterjug.WithTracer(tracer),
	}
	engine, err := waterjug.New(append(base, opts...)...)
	if err != nil {
		shutdown(context.Background())
		return nil, nil, err
	}
	return engine, shutdown, nil
}
