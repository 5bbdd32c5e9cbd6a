package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rykrr/pyfire/internal/config"
	"github.com/rykrr/pyfire/internal/pipeline"
	"github.com/rykrr/pyfire/internal/screen"
	"github.com/rykrr/pyfire/internal/tui"
	"github.com/rykrr/pyfire/internal/viz"
)

// resolveConfig layers preset, config file and explicitly set flags, in
// that order, over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	overrides := map[string]func(){
		"timing":    func() { cfg.Timing = timing },
		"strength":  func() { cfg.Strength = strength },
		"alpha":     func() { cfg.Alpha = alpha },
		"beta":      func() { cfg.Beta = beta },
		"epsilon":   func() { cfg.Epsilon = epsilon },
		"delta":     func() { cfg.Delta = delta },
		"bias":      func() { cfg.Bias = bias },
		"bias-dist": func() { cfg.BiasSpread = biasDist },
		"clip":      func() { cfg.Clip = clip },
		"margin":    func() { cfg.Margin = margin },
		"mode":      func() { cfg.Mode = mode },
		"buffer":    func() { cfg.Buffer = bufferSize },
		"cache":     func() { cfg.Cache = cache },
		"kernel":    func() { cfg.Kernel, cfg.KernelWeights = kernel, nil },
		"seed":      func() { cfg.Seed = seed },
		"strict":    func() { cfg.Strict = strict },
		"min-loop":  func() { cfg.MinLoop = minLoop },
		"backend":   func() { cfg.Backend = backend },
		"debug":     func() { cfg.Debug = debug },
		"log":       func() { cfg.LogFile = logFile },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func schedulerConfig(cfg *config.Config, logger *log.Logger) (pipeline.Config, error) {
	params, err := cfg.SimParams()
	if err != nil {
		return pipeline.Config{}, err
	}
	r, err := cfg.Renderer()
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		Params:        params,
		Renderer:      r,
		Timing:        cfg.TimingDuration(),
		BufferSize:    cfg.Buffer,
		MinLoop:       cfg.LoopThreshold(),
		MaxLoopFrames: cfg.MaxLoopFrames,
		Seed:          cfg.Seed,
		Logger:        logger,
	}, nil
}

// runFire animates until ctx ends or the display asks to quit.
func runFire(ctx context.Context, cfg *config.Config, backend string) error {
	closeLog, err := setupLogging(cfg.Debug, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	pcfg, err := schedulerConfig(cfg, log.Default())
	if err != nil {
		return err
	}
	log.Printf("starting %s backend: mode=%s cache=%d buffer=%d timing=%v", backend, cfg.Mode, cfg.Cache, cfg.Buffer, pcfg.Timing)

	tok := pipeline.NewToken()
	switch backend {
	case "ansi":
		return runANSI(ctx, pcfg, tok)
	case "tcell":
		return runTcell(ctx, pcfg, tok)
	case "tea":
		return runTea(ctx, pcfg, tok)
	}
	return fmt.Errorf("unknown backend: %s (available: %v)", backend, config.Backends)
}

// requireTerminal keeps the endless animation out of pipes and files.
func requireTerminal(term *tui.Terminal) error {
	if !term.IsTerminal() {
		return errors.New("stdout is not a terminal (use bench or snapshot for headless runs)")
	}
	return nil
}

func runANSI(ctx context.Context, pcfg pipeline.Config, tok *pipeline.Token) error {
	term := tui.Stdout()
	if err := requireTerminal(term); err != nil {
		return err
	}
	s, err := pipeline.New(pcfg, term, term, tok)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go tui.WatchResize(ctx, tok)
	return s.Run(ctx)
}

func runTcell(ctx context.Context, pcfg pipeline.Config, tok *pipeline.Token) error {
	scr, err := screen.New()
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}
	defer scr.Close()

	s, err := pipeline.New(pcfg, scr, scr, tok)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go scr.Events(ctx, tok, cancel)
	return s.Run(ctx)
}

func runTea(ctx context.Context, pcfg pipeline.Config, tok *pipeline.Token) error {
	win := viz.NewWindow(tok)

	var s *pipeline.Scheduler
	model := viz.NewModel(win, func() pipeline.Stats { return s.Stats() }, "ember")
	prog := tea.NewProgram(model, tea.WithAltScreen())

	s, err := pipeline.New(pcfg, win, viz.NewDisplay(prog), tok)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		err := s.Run(ctx)
		prog.Quit()
		errc <- err
	}()
	go func() {
		<-ctx.Done()
		prog.Quit()
	}()

	if _, err := prog.Run(); err != nil {
		return err
	}
	cancel()
	return <-errc
}
