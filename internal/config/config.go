package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/reflexarc/internal/observability"
	"github.com/san-kum/reflexarc/internal/quantity"
	"github.com/san-kum/reflexarc/internal/reflex"
)

// ErrInvalidFile indicates a config file that parsed but cannot be turned
// into reflex overrides.
var ErrInvalidFile = errors.New("config: invalid file")

type Config struct {
	Logger observability.LoggerConfig `yaml:"logger"`
	Reflex ReflexConfig               `yaml:"reflex"`
}

// ReflexConfig is the file form of reflex.Overrides. Keys mirror the
// construction parameters; connections are keyed "Source->Target".
type ReflexConfig struct {
	Topology            string                        `yaml:"topology,omitempty"`
	ReactionTime        *quantity.Quantity            `yaml:"reaction_time,omitempty"`
	Biophysical         map[string]quantity.Quantity  `yaml:"biophysical_params,omitempty"`
	Muscles             []string                      `yaml:"muscles_names,omitempty"`
	Joint               *string                       `yaml:"associated_joint,omitempty"`
	Neurons             map[string]int                `yaml:"custom_neurons,omitempty"`
	Connections         map[string]reflex.Synapse     `yaml:"custom_connections,omitempty"`
	Spindle             map[string]string             `yaml:"custom_spindle,omitempty"`
	EES                 map[string]reflex.Recruitment `yaml:"ees_recruitment_profile,omitempty"`
	FastTypeMU          *bool                         `yaml:"fast_type_mu,omitempty"`
	InitialPotentials   map[string]quantity.Quantity  `yaml:"custom_initial_potentials,omitempty"`
	InitialActivation   [][]reflex.ActivationState    `yaml:"custom_initial_condition_spike_activation,omitempty"`
	InitialStateOpenSim map[string]float64            `yaml:"initial_state_opensim,omitempty"`
	Remove              RemoveConfig                  `yaml:"remove,omitempty"`
}

type RemoveConfig struct {
	Neurons     []string `yaml:"custom_neurons,omitempty"`
	Connections []string `yaml:"custom_connections,omitempty"`
	Spindle     []string `yaml:"custom_spindle,omitempty"`
	Biophysical []string `yaml:"biophysical_params,omitempty"`
	EES         []string `yaml:"ees_recruitment_profile,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Logger: observability.DefaultLoggerConfig(),
		Reflex: ReflexConfig{Topology: reflex.Monosynaptic},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Reflex.Topology == "" {
		cfg.Reflex.Topology = reflex.Monosynaptic
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Overrides converts the file form into reflex overrides.
func (r ReflexConfig) Overrides() (reflex.Overrides, error) {
	ov := reflex.Overrides{
		ReactionTime:        r.ReactionTime,
		Biophysical:         reflex.BiophysicalParams(r.Biophysical),
		Muscles:             r.Muscles,
		Joint:               r.Joint,
		Neurons:             reflex.Populations(r.Neurons),
		Spindle:             reflex.SpindleModel(r.Spindle),
		EES:                 reflex.EESProfile(r.EES),
		FastTypeMU:          r.FastTypeMU,
		InitialPotentials:   reflex.InitialPotentials(r.InitialPotentials),
		InitialActivation:   reflex.InitialActivation(r.InitialActivation),
		InitialStateOpenSim: r.InitialStateOpenSim,
		Remove: reflex.Removals{
			Neurons:     r.Remove.Neurons,
			Spindle:     r.Remove.Spindle,
			Biophysical: r.Remove.Biophysical,
			EES:         r.Remove.EES,
		},
	}

	if len(r.Connections) > 0 {
		ov.Connections = make(reflex.Connections, len(r.Connections))
		for key, syn := range r.Connections {
			p, err := reflex.ParsePathway(key)
			if err != nil {
				return reflex.Overrides{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
			}
			ov.Connections[p] = syn
		}
	}
	for _, key := range r.Remove.Connections {
		p, err := reflex.ParsePathway(key)
		if err != nil {
			return reflex.Overrides{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
		ov.Remove.Connections = append(ov.Remove.Connections, p)
	}
	return ov, nil
}

// Layer returns r with every field set in top applied over it. Maps merge
// by key; the rest is replaced.
func (r ReflexConfig) Layer(top ReflexConfig) ReflexConfig {
	out := r.clone()
	if top.Topology != "" {
		out.Topology = top.Topology
	}
	if top.ReactionTime != nil {
		out.ReactionTime = top.ReactionTime
	}
	if top.Muscles != nil {
		out.Muscles = slices.Clone(top.Muscles)
	}
	if top.Joint != nil {
		out.Joint = top.Joint
	}
	if top.FastTypeMU != nil {
		out.FastTypeMU = top.FastTypeMU
	}
	if top.InitialPotentials != nil {
		out.InitialPotentials = maps.Clone(top.InitialPotentials)
	}
	if top.InitialActivation != nil {
		out.InitialActivation = top.InitialActivation
	}
	if top.InitialStateOpenSim != nil {
		out.InitialStateOpenSim = maps.Clone(top.InitialStateOpenSim)
	}
	out.Biophysical = layerMap(out.Biophysical, top.Biophysical)
	out.Neurons = layerMap(out.Neurons, top.Neurons)
	out.Connections = layerMap(out.Connections, top.Connections)
	out.Spindle = layerMap(out.Spindle, top.Spindle)
	out.EES = layerMap(out.EES, top.EES)
	out.Remove.Neurons = append(out.Remove.Neurons, top.Remove.Neurons...)
	out.Remove.Connections = append(out.Remove.Connections, top.Remove.Connections...)
	out.Remove.Spindle = append(out.Remove.Spindle, top.Remove.Spindle...)
	out.Remove.Biophysical = append(out.Remove.Biophysical, top.Remove.Biophysical...)
	out.Remove.EES = append(out.Remove.EES, top.Remove.EES...)
	return out
}

func (r ReflexConfig) clone() ReflexConfig {
	out := r
	out.Biophysical = maps.Clone(r.Biophysical)
	out.Muscles = slices.Clone(r.Muscles)
	out.Neurons = maps.Clone(r.Neurons)
	out.Connections = maps.Clone(r.Connections)
	out.Spindle = maps.Clone(r.Spindle)
	out.EES = maps.Clone(r.EES)
	out.InitialPotentials = maps.Clone(r.InitialPotentials)
	out.InitialStateOpenSim = maps.Clone(r.InitialStateOpenSim)
	out.Remove = RemoveConfig{
		Neurons:     slices.Clone(r.Remove.Neurons),
		Connections: slices.Clone(r.Remove.Connections),
		Spindle:     slices.Clone(r.Remove.Spindle),
		Biophysical: slices.Clone(r.Remove.Biophysical),
		EES:         slices.Clone(r.Remove.EES),
	}
	return out
}

func layerMap[M ~map[string]V, V any](dst, src M) M {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(M, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// FromReflex renders a built configuration in file form, e.g. to dump the
// defaults as a starting point for a custom file.
func FromReflex(c *reflex.Config) ReflexConfig {
	rt := c.ReactionTime
	joint := c.Joint
	fast := c.FastTypeMU
	out := ReflexConfig{
		Topology:            c.Topology,
		ReactionTime:        &rt,
		Biophysical:         maps.Clone(map[string]quantity.Quantity(c.Biophysical)),
		Muscles:             slices.Clone(c.Muscles),
		Joint:               &joint,
		Neurons:             maps.Clone(map[string]int(c.Neurons)),
		Spindle:             maps.Clone(map[string]string(c.Spindle)),
		EES:                 maps.Clone(map[string]reflex.Recruitment(c.EES)),
		FastTypeMU:          &fast,
		InitialPotentials:   maps.Clone(map[string]quantity.Quantity(c.InitialPotentials)),
		InitialStateOpenSim: maps.Clone(c.InitialStateOpenSim),
	}
	if len(c.Connections) > 0 {
		out.Connections = make(map[string]reflex.Synapse, len(c.Connections))
		for p, syn := range c.Connections {
			out.Connections[p.String()] = syn
		}
	}
	return out
}

// ActivationSummary describes the initial activation layout without
// listing every record.
func ActivationSummary(a reflex.InitialActivation) string {
	sizes := make([]int, len(a))
	for i, states := range a {
		sizes[i] = len(states)
	}
	return fmt.Sprintf("%d muscle(s), records per muscle %v", len(a), sizes)
}
