package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gifsmith/internal/check"
	"gifsmith/internal/config"
	"gifsmith/internal/display"
	"gifsmith/internal/logging"
	"gifsmith/internal/pipeline"
)

// errConversionFailed makes a failed single-file conversion surface as a
// non-zero process exit. Batch runs report failures in the summary and
// still exit 0.
var errConversionFailed = errors.New("conversion failed")

func newRootCommand() *cobra.Command {
	cfg := config.Default()
	var configPath string
	var colorMode string

	cmd := &cobra.Command{
		Use:   "gifsmith [flags] [inputs...]",
		Short: "Convert video clips to animated GIF with transparency detection",
		Long: `gifsmith converts short video clips (WebM and friends) to animated GIF.
Sources with an alpha channel keep their transparency; sources with a
dominant near-black background get it converted to transparency. With no
inputs, all convertible files in the current directory are processed.`,
		Version:       version + " (" + commit + ")",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Inputs = args
			cfg.ColorMode = config.ColorMode(colorMode)
			return runConvert(&cfg, configPath)
		},
	}

	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "Output GIF path (single input file only)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file overriding detection policy")
	cmd.Flags().BoolVar(&cfg.Force, "force", false, "Reconvert files whose output already exists")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Probe and plan only, write nothing")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&colorMode, "color", string(config.ColorAuto), "Color output: auto, always, never")
	cmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "Also append plain log output to this file")
	cmd.Flags().BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")

	return cmd
}

func runConvert(cfg *config.Config, configPath string) error {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so config errors
	// go straight back to cobra, which prints them to stderr.
	if configPath != "" {
		if err := config.LoadFile(configPath, cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(log)
		return nil
	}

	// Fail fast if ffmpeg/ffprobe are unavailable or unusable.
	if err := check.CheckDeps(); err != nil {
		return err
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between files without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run pipeline (discover -> probe -> analyze -> plan ->
	// stream-convert, one file at a time).
	stats := pipeline.Run(ctx, cfg, log)

	// A single explicitly named input propagates its failure as exit 1;
	// batch mode always exits 0 and reports per-file results in the summary.
	if stats.SingleFile && stats.Failed > 0 {
		return fmt.Errorf("%w: %s", errConversionFailed, cfg.Inputs[0])
	}
	return nil
}
