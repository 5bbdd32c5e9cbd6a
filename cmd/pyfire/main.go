package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rykrr/pyfire/internal/config"
	"github.com/rykrr/pyfire/internal/render"
	"github.com/rykrr/pyfire/internal/sim"
)

var (
	timing     float64
	strength   float64
	alpha      float64
	beta       float64
	epsilon    float64
	delta      float64
	bias       float64
	biasDist   float64
	clip       int
	margin     int
	mode       string
	bufferSize int
	cache      int
	kernel     string
	seed       int64
	strict     bool
	minLoop    int
	backend    string
	// Config sources
	configFile string
	preset     string
	// Diagnostics
	debug   bool
	logFile string
	// Headless runs
	benchTicks   int
	analyzeTicks int
	width        int
	height       int
	warmup       int
	// Exports
	jsonPath      string
	svgPath       string
	snapshotTicks int
	// config command
	savePath string
)

// main registers the commands and exits with status 1 on error.
func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	d := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "pyfire",
		Short: "a fire in your terminal",
		Long: "pyfire simulates heat rising through a grid and draws it as a\n" +
			"coloured fire that fills the terminal.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return runFire(cmd.Context(), cfg, cfg.Backend)
		},
	}

	f := rootCmd.PersistentFlags()
	f.Float64VarP(&timing, "timing", "t", d.Timing, "seconds between frames")
	f.Float64VarP(&strength, "strength", "s", d.Strength, "ignition strength in [0,1]")
	f.Float64VarP(&alpha, "alpha", "a", d.Alpha, "kernel scale")
	f.Float64VarP(&beta, "beta", "b", d.Beta, "global cooling per tick")
	f.Float64VarP(&epsilon, "epsilon", "e", d.Epsilon, "blend of saturating cooling in [0,1]")
	f.Float64VarP(&delta, "delta", "d", d.Delta, "saturation steepness")
	f.Float64VarP(&bias, "bias", "B", d.Bias, "weight of the centre-heavy ignition shape in [0,1]")
	f.Float64Var(&biasDist, "bias-dist", d.BiasSpread, "spread of the ignition shape")
	f.IntVar(&clip, "clip", d.Clip, "hidden rows under the visible fire")
	f.IntVar(&margin, "margin", d.Margin, "columns on each edge that never ignite")
	f.StringVar(&mode, "mode", d.Mode, fmt.Sprintf("charset %v", render.PaletteNames()))
	f.IntVar(&bufferSize, "buffer", d.Buffer, "frames rendered ahead of the display")
	f.IntVar(&cache, "cache", d.Cache, "pre-generated ignition rows, enables loop replay when > 0")
	f.StringVar(&kernel, "kernel", d.Kernel, fmt.Sprintf("diffusion kernel %v", sim.KernelNames()))
	f.Int64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	f.BoolVar(&strict, "strict", d.Strict, "fail on heat outside the palette instead of clamping")
	f.IntVar(&minLoop, "min-loop", d.MinLoop, "frames buffered before a repeat closes a loop, 0 uses --clip")
	f.StringVar(&backend, "backend", d.Backend, fmt.Sprintf("display backend %v", config.Backends))
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", fmt.Sprintf("preset %v", config.ListPresets()))
	f.BoolVar(&debug, "debug", false, "write diagnostics to the log file")
	f.StringVar(&logFile, "log", d.LogFile, "log file used with --debug")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the fire with a status bar",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return runFire(cmd.Context(), cfg, "tea")
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "simulate without a display and report throughput",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 500, "ticks to simulate")
	benchCmd.Flags().IntVar(&width, "width", 80, "field width")
	benchCmd.Flags().IntVar(&height, "height", 24, "visible field height")
	benchCmd.Flags().StringVar(&jsonPath, "json", "", "write a json report to this path (- for stdout)")
	benchCmd.Flags().StringVar(&svgPath, "svg", "", "write the mean heat plot as svg to this path")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.svg]",
		Short: "simulate without a display and save the last frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapshotTicks, "ticks", 200, "ticks to simulate")
	snapshotCmd.Flags().IntVar(&width, "width", 80, "field width")
	snapshotCmd.Flags().IntVar(&height, "height", 24, "visible field height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "estimate the period of the mean heat and compare it with the frame loop",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().IntVar(&analyzeTicks, "ticks", 2000, "ticks to simulate")
	analyzeCmd.Flags().IntVar(&width, "width", 80, "field width")
	analyzeCmd.Flags().IntVar(&height, "height", 24, "visible field height")
	analyzeCmd.Flags().IntVar(&warmup, "warmup", 200, "ticks discarded before sampling")

	palettesCmd := &cobra.Command{
		Use:   "palettes",
		Short: "preview every charset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPalettes(cmd.OutOrStdout())
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPresets(cmd.OutOrStdout())
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if savePath != "" {
				if err := config.Save(savePath, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", savePath)
				return nil
			}
			return cfg.Write(cmd.OutOrStdout())
		},
	}
	configCmd.Flags().StringVar(&savePath, "save", "", "write the configuration to this path")

	rootCmd.AddCommand(tuiCmd, benchCmd, analyzeCmd, snapshotCmd, palettesCmd, presetsCmd, configCmd)
	return rootCmd
}
