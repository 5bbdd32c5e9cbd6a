package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/render"
	"github.com/rykrr/pyfire/internal/sim"
)

const (
	DefaultTiming     = 0.03
	DefaultStrength   = 1.0
	DefaultAlpha      = 1.0
	DefaultBeta       = 1.0
	DefaultEpsilon    = 1.0
	DefaultDelta      = 5.0
	DefaultBiasSpread = 0.2
	DefaultMargin     = 5
	DefaultClip       = 3
	DefaultMode       = "dither"
	DefaultBuffer     = 10
	DefaultKernel     = "classic"
	DefaultBackend    = "ansi"
)

// Backends the command line can drive.
var Backends = []string{"ansi", "tcell", "tea"}

type Config struct {
	Timing        float64        `yaml:"timing" json:"timing"`
	Strength      float64        `yaml:"strength" json:"strength"`
	Alpha         float64        `yaml:"alpha" json:"alpha"`
	Beta          float64        `yaml:"beta" json:"beta"`
	Epsilon       float64        `yaml:"epsilon" json:"epsilon"`
	Delta         float64        `yaml:"delta" json:"delta"`
	Bias          float64        `yaml:"bias" json:"bias"`
	BiasSpread    float64        `yaml:"bias_spread" json:"bias_spread"`
	Margin        int            `yaml:"margin" json:"margin"`
	Clip          int            `yaml:"clip" json:"clip"`
	Mode          string         `yaml:"mode" json:"mode"`
	Buffer        int            `yaml:"buffer" json:"buffer"`
	Cache         int            `yaml:"cache" json:"cache"`
	Kernel        string         `yaml:"kernel" json:"kernel"`
	KernelWeights *[5][5]float64 `yaml:"kernel_weights,omitempty" json:"kernel_weights,omitempty"`
	Seed          int64          `yaml:"seed" json:"seed"`
	Strict        bool           `yaml:"strict" json:"strict"`
	MinLoop       int            `yaml:"min_loop" json:"min_loop"`               // 0 uses clip
	MaxLoopFrames int            `yaml:"max_loop_frames" json:"max_loop_frames"` // 0 uses the cache default
	Backend       string         `yaml:"backend" json:"backend"`
	Debug         bool           `yaml:"debug" json:"debug"`
	LogFile       string         `yaml:"log_file" json:"log_file"`
}

func DefaultConfig() *Config {
	return &Config{
		Timing:     DefaultTiming,
		Strength:   DefaultStrength,
		Alpha:      DefaultAlpha,
		Beta:       DefaultBeta,
		Epsilon:    DefaultEpsilon,
		Delta:      DefaultDelta,
		BiasSpread: DefaultBiasSpread,
		Margin:     DefaultMargin,
		Clip:       DefaultClip,
		Mode:       DefaultMode,
		Buffer:     DefaultBuffer,
		Kernel:     DefaultKernel,
		Backend:    DefaultBackend,
		LogFile:    "pyfire.log",
	}
}

// Load reads a yaml file over the defaults, so a partial file is valid.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	if c.KernelWeights != nil {
		w := *c.KernelWeights
		cp.KernelWeights = &w
	}
	return &cp
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Write encodes the config as yaml.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks everything that does not depend on the display size.
// Size-dependent checks happen when the simulator is built.
func (c *Config) Validate() error {
	if c.Timing <= 0 {
		return flame.Configf("timing", "must be positive, got %g", c.Timing)
	}
	if c.Buffer < 1 {
		return flame.Configf("buffer", "must be at least 1, got %d", c.Buffer)
	}
	if c.MinLoop < 0 {
		return flame.Configf("min_loop", "must be non-negative, got %d", c.MinLoop)
	}
	if c.MaxLoopFrames < 0 {
		return flame.Configf("max_loop_frames", "must be non-negative, got %d", c.MaxLoopFrames)
	}
	if _, err := render.LookupPalette(c.Mode); err != nil {
		return err
	}
	if !validBackend(c.Backend) {
		return flame.Configf("backend", "unknown backend %q (available: %v)", c.Backend, Backends)
	}
	p, err := c.SimParams()
	if err != nil {
		return err
	}
	// A width just wide enough for the margins checks everything else.
	return p.Validate(2*max(p.Margin, 1)+1, 1)
}

func validBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// SimParams resolves the kernel and returns the simulator constants.
func (c *Config) SimParams() (sim.Params, error) {
	weights, err := c.kernelWeights()
	if err != nil {
		return sim.Params{}, err
	}
	return sim.Params{
		Alpha:      c.Alpha,
		Beta:       c.Beta,
		Epsilon:    c.Epsilon,
		Delta:      c.Delta,
		Strength:   c.Strength,
		Bias:       c.Bias,
		BiasSpread: c.BiasSpread,
		Margin:     c.Margin,
		Clip:       c.Clip,
		CacheSize:  c.Cache,
		Kernel:     weights,
	}, nil
}

func (c *Config) kernelWeights() ([5][5]float64, error) {
	if c.KernelWeights != nil {
		return *c.KernelWeights, nil
	}
	return sim.KernelPreset(c.Kernel)
}

// Renderer builds the renderer for Mode and Strict.
func (c *Config) Renderer() (*render.Renderer, error) {
	pal, err := render.LookupPalette(c.Mode)
	if err != nil {
		return nil, err
	}
	policy := render.Clamp
	if c.Strict {
		policy = render.Strict
	}
	return render.New(pal, policy), nil
}

func (c *Config) TimingDuration() time.Duration {
	return time.Duration(c.Timing * float64(time.Second))
}

// LoopThreshold is the number of frames buffered before a repeat may close
// a cycle.
func (c *Config) LoopThreshold() int {
	if c.MinLoop > 0 {
		return c.MinLoop
	}
	return c.Clip
}
