package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/segtag/internal/config"
	"github.com/philipparndt/segtag/internal/logger"
	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	debug      bool
	logFile    string

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "segtag",
	Short: "Place 3D labels next to the segments of a scene",
	Long: `segtag computes where to put a text label for every segment of a 3D scene.
Each label sits outside its segment, along the direction from the scene
center through the segment center, connected to the surface by a leader line.

Scenes are YAML or TOML manifests listing STL or OpenSCAD segment files,
or plain directories of STL files.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
}

// setup loads the configuration and initializes logging before any command runs
func setup(cmd *cobra.Command, args []string) error {
	ov := config.Overrides{Debug: debug, LogFile: logFile}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		ov.Addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("size"); f != nil && f.Changed {
		size, _ := cmd.Flags().GetFloat64("size")
		ov.TagSize = &size
	}

	loaded, err := config.Load(configPath, ov)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("configuration loaded",
		zap.String("config", configPath),
		zap.Float64("tag_size", cfg.Tags.Size),
		zap.String("version", version.GetFullVersion()))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apperrors.UserMessage(err))
		os.Exit(1)
	}
}
