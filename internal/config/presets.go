package config

import (
	"maps"
	"slices"

	"github.com/san-kum/reflexarc/internal/quantity"
	"github.com/san-kum/reflexarc/internal/reflex"
)

// Presets build named override sets. Each call returns a fresh value.
var Presets = map[string]func() ReflexConfig{
	"default": func() ReflexConfig {
		return ReflexConfig{Topology: reflex.Monosynaptic}
	},
	"tibialis": func() ReflexConfig {
		return ReflexConfig{
			Topology: reflex.Monosynaptic,
			Muscles:  []string{"tib_ant_r"},
		}
	},
	"large_pool": func() ReflexConfig {
		return ReflexConfig{
			Topology: reflex.Monosynaptic,
			Neurons:  map[string]int{reflex.Ia: 600, reflex.MN: 800},
		}
	},
	"high_threshold_mn": func() ReflexConfig {
		return ReflexConfig{
			Topology: reflex.Monosynaptic,
			EES: map[string]reflex.Recruitment{
				reflex.MN: {Threshold10: reflex.Fraction(0.8), Saturation90: reflex.Fraction(0.95)},
			},
			Connections: map[string]reflex.Synapse{
				"Ia->MN": {Weight: quantity.Nanosiemens(3), Probability: reflex.Fraction(0.8)},
			},
		}
	},
	"slow_twitch": func() ReflexConfig {
		slow := false
		rt := quantity.Milliseconds(35)
		return ReflexConfig{
			Topology:     reflex.Monosynaptic,
			FastTypeMU:   &slow,
			ReactionTime: &rt,
		}
	},
}

func GetPreset(name string) (ReflexConfig, bool) {
	build, ok := Presets[name]
	if !ok {
		return ReflexConfig{}, false
	}
	return build(), true
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
