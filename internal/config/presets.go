package config

import "sort"

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"embers": with(func(c *Config) {
		c.Strength = 0.6
		c.Bias = 0.4
		c.BiasSpread = 0.8
		c.Mode = "fade"
		c.Timing = 0.05
	}),
	"inferno": with(func(c *Config) {
		c.Alpha = 1.02
		c.Delta = 3
		c.Bias = 0.6
		c.BiasSpread = 0.1
		c.Margin = 2
		c.Mode = "chars"
	}),
	"loop": with(func(c *Config) {
		c.Cache = 16
		c.Beta = 0.98
		c.Buffer = 20
	}),
	"soft": with(func(c *Config) {
		c.Kernel = "soft"
		c.Epsilon = 0.8
		c.Mode = "dither"
		c.Timing = 0.04
	}),
}

func with(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
