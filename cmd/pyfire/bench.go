package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/rykrr/pyfire/internal/analysis"
	"github.com/rykrr/pyfire/internal/config"
	"github.com/rykrr/pyfire/internal/export"
	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/loop"
	"github.com/rykrr/pyfire/internal/metrics"
	"github.com/rykrr/pyfire/internal/render"
	"github.com/rykrr/pyfire/internal/sim"
	"github.com/rykrr/pyfire/internal/store"
	"github.com/rykrr/pyfire/internal/viz"
)

// headlessResult summarizes a run without a display.
type headlessResult struct {
	Ticks    int
	Elapsed  time.Duration
	Metrics  []metrics.Metric
	Mean     *metrics.Series
	ClosedAt int // tick at which the frame loop closed, 0 if it never did
	CycleLen int
	Last     flame.Frame
}

// runHeadless steps a w x h field for n ticks, rendering every frame and
// feeding the loop cache while ignition caching is on. Metrics observe
// every tick after skip.
func runHeadless(cfg *config.Config, w, h, n, skip int) (*headlessResult, error) {
	params, err := cfg.SimParams()
	if err != nil {
		return nil, err
	}
	r, err := cfg.Renderer()
	if err != nil {
		return nil, err
	}
	s := cfg.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	fire, err := sim.New(w, h, params, sim.WithRand(rand.New(rand.NewSource(s))))
	if err != nil {
		return nil, err
	}

	maxFrames := cfg.MaxLoopFrames
	if maxFrames == 0 {
		maxFrames = loop.DefaultMaxFrames
	}
	cache := loop.New(cfg.LoopThreshold(), loop.WithMaxFrames(maxFrames))
	res := &headlessResult{
		Ticks: n,
		Metrics: []metrics.Metric{
			metrics.NewMeanHeat(),
			metrics.NewPeakHeat(),
			metrics.NewCoverage(1.0 / render.Bins),
		},
		Mean: metrics.NewSeries("mean_heat", metrics.Mean, 0),
	}

	start := time.Now()
	for i := 1; i <= n; i++ {
		fire.Step()
		var frame flame.Frame
		if frame, err = r.Render(fire.Field(), params.Clip); err != nil {
			return nil, fmt.Errorf("render tick %d: %w", i, err)
		}
		res.Last = frame
		if params.CacheSize > 0 && !cache.Replaying() && cache.Observe(frame) == loop.CycleClosed {
			res.ClosedAt, res.CycleLen = i, cache.Len()
		}
		if i <= skip {
			continue
		}
		for _, m := range res.Metrics {
			m.Observe(fire.Field(), i)
		}
		res.Mean.Observe(fire.Field(), i)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonPath == "-" {
		// stdout carries only the report
		out = cmd.ErrOrStderr()
	}

	fmt.Fprintf(out, "simulating %d ticks at %dx%d...\n", benchTicks, width, height)
	res, err := runHeadless(cfg, width, height, benchTicks, 0)
	if err != nil {
		return err
	}

	rate := float64(res.Ticks) / res.Elapsed.Seconds()
	fmt.Fprintf(out, "completed in %v (%.0f steps/sec, %.1f Mcells/sec)\n",
		res.Elapsed.Round(time.Millisecond), rate, rate*float64(width*(height+cfg.Clip))/1e6)
	fmt.Fprintln(out, "\nmetrics:")
	for _, m := range res.Metrics {
		fmt.Fprintf(out, "  %s: %.6f\n", m.Name(), m.Value())
	}

	if cfg.Cache > 0 {
		if res.CycleLen > 0 {
			fmt.Fprintf(out, "\nloop closed at tick %d with %d frames\n", res.ClosedAt, res.CycleLen)
		} else {
			fmt.Fprintf(out, "\nno loop closed within %d ticks\n", res.Ticks)
		}
	}

	if res.Mean.Len() > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(res.Mean.Values(),
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("mean heat per tick")))
	}

	switch report := benchReport(cfg, res, rate); jsonPath {
	case "":
	case "-":
		if err := store.WriteJSON(cmd.OutOrStdout(), report); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
	default:
		if err := store.ExportJSON(jsonPath, report); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
	}
	if svgPath != "" {
		svg := export.SeriesToSVG(res.Mean.Values(), 800, 240, "#ff8700")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return fmt.Errorf("export plot: %w", err)
		}
	}
	return nil
}

func benchReport(cfg *config.Config, res *headlessResult, rate float64) *store.Report {
	r := &store.Report{
		Config:      cfg,
		Width:       width,
		Height:      height,
		Ticks:       res.Ticks,
		ElapsedSecs: res.Elapsed.Seconds(),
		StepsPerSec: rate,
		Metrics:     make(map[string]float64, len(res.Metrics)),
		MeanHeat:    res.Mean.Values(),
	}
	for _, m := range res.Metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	if res.CycleLen > 0 {
		r.Loop = &store.LoopReport{ClosedAt: res.ClosedAt, Frames: res.CycleLen}
	}
	return r
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	res, err := runHeadless(cfg, width, height, snapshotTicks, snapshotTicks)
	if err != nil {
		return err
	}
	svg := export.FrameToSVG(res.Last, 8)
	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote tick %d (%dx%d) to %s\n", res.Ticks, res.Last.Width(), res.Last.Height(), args[0])
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if warmup >= analyzeTicks {
		return fmt.Errorf("warmup (%d) must be less than ticks (%d)", warmup, analyzeTicks)
	}

	res, err := runHeadless(cfg, width, height, analyzeTicks, warmup)
	if err != nil {
		return err
	}
	series := res.Mean.Values()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "samples\t%d\n", len(series))
	if period, power, err := analysis.DominantPeriod(series); err != nil {
		fmt.Fprintf(tw, "spectral period\t%v\n", err)
	} else {
		fmt.Fprintf(tw, "spectral period\t%.2f ticks (power %.3g)\n", period, power)
	}
	lag, acErr := analysis.AutocorrPeriod(series, len(series)/2)
	if acErr != nil {
		fmt.Fprintf(tw, "autocorrelation period\t%v\n", acErr)
	} else {
		fmt.Fprintf(tw, "autocorrelation period\t%d ticks\n", lag)
	}
	switch {
	case cfg.Cache == 0:
		fmt.Fprintf(tw, "frame loop\tdisabled (forcing is not periodic, set --cache)\n")
	case res.CycleLen == 0:
		fmt.Fprintf(tw, "frame loop\tnot closed within %d ticks\n", res.Ticks)
	default:
		fmt.Fprintf(tw, "frame loop\t%d frames, closed at tick %d\n", res.CycleLen, res.ClosedAt)
		if acErr == nil {
			fmt.Fprintf(tw, "agreement\t%s\n", agreement(lag, res.CycleLen))
		}
	}
	return tw.Flush()
}

// agreement compares an estimated period with the detected cycle, which
// may be a multiple of it.
func agreement(lag, cycle int) string {
	switch {
	case lag == cycle:
		return "exact"
	case lag > 0 && cycle%lag == 0:
		return fmt.Sprintf("cycle is %d x the heat period", cycle/lag)
	}
	return "none"
}

func printPalettes(out io.Writer) error {
	for _, name := range render.PaletteNames() {
		p, err := render.LookupPalette(name)
		if err != nil {
			return err
		}
		swatches := make([]string, 0, render.Bins)
		for bin, c := range p.Cells() {
			swatches = append(swatches, viz.Swatch(c, bin))
		}
		fmt.Fprintf(out, "%-8s %s\n", name, strings.Join(swatches, " "))
	}
	return nil
}

func printPresets(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODE\tKERNEL\tCACHE\tSTRENGTH\tBIAS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%.2f\n", name, p.Mode, p.Kernel, p.Cache, p.Strength, p.Bias)
	}
	return tw.Flush()
}
