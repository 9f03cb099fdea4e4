package config

import "sort"

type Preset struct {
	Description string
	Config      *Config
}

func preset(desc string, num, den []float64) Preset {
	cfg := DefaultConfig()
	cfg.Numerator = num
	cfg.Denominator = den
	return Preset{Description: desc, Config: cfg}
}

var Presets = map[string]Preset{
	"underdamped": preset("4/(s²+0.8s+4), ζ = 0.2, ωn = 2", []float64{4}, []float64{1, 0.8, 4}),
	"critical":    preset("64/(s²+16s+64), ζ = 1, ωn = 8", []float64{64}, []float64{1, 16, 64}),
	"overdamped":  preset("4/(s²+5s+4), ζ = 1.25, ωn = 2", []float64{4}, []float64{1, 5, 4}),
	"undamped":    preset("4/(s²+4), ζ = 0, ωn = 2", []float64{4}, []float64{1, 0, 4}),
	"textbook":    preset("5s⁵+4s⁴+6s³+9s²+8s+7, two RHP roots", []float64{1}, []float64{5, 4, 6, 9, 8, 7}),
	"marginal":    preset("(s+1)(s²+1), roots on the imaginary axis", []float64{1}, []float64{1, 1, 1, 1}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Config.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
