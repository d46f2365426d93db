package reflex

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/san-kum/reflexarc/internal/quantity"
)

// Neuron type labels used by the monosynaptic topology.
const (
	Ia = "Ia"
	MN = "MN"
)

// Biophysical parameter keys.
const (
	ParamRefractory      = "T_refr"
	ParamLeakPotential   = "Eleaky"
	ParamLeakConductance = "gL"
	ParamCapacitance     = "Cm"
	ParamExcReversal     = "E_ex"
	ParamExcTau          = "tau_e"
	ParamThreshold       = "threshold_v"
	ParamInhReversal     = "E_inh"
	ParamInhTau          = "tau_i"
)

type BiophysicalParams map[string]quantity.Quantity

// Populations maps a neuron type label to its neuron count.
type Populations map[string]int

// Labels returns the population labels in sorted order.
func (p Populations) Labels() []string {
	return slices.Sorted(maps.Keys(p))
}

// Pathway is an ordered (source, target) neuron type pair.
type Pathway struct {
	Source string
	Target string
}

func (p Pathway) String() string {
	return p.Source + "->" + p.Target
}

// ParsePathway reads the "Source->Target" form produced by String.
func ParsePathway(s string) (Pathway, error) {
	src, dst, ok := strings.Cut(s, "->")
	src, dst = strings.TrimSpace(src), strings.TrimSpace(dst)
	if !ok || src == "" || dst == "" {
		return Pathway{}, fmt.Errorf("reflex: malformed pathway %q (want Source->Target)", s)
	}
	return Pathway{Source: src, Target: dst}, nil
}

// Synapse describes one pathway's connection. A nil Probability means the
// field was not given.
type Synapse struct {
	Weight      quantity.Quantity `yaml:"weight"`
	Probability *float64          `yaml:"probability,omitempty"`
}

func (s Synapse) clone() Synapse {
	if s.Probability != nil {
		s.Probability = Fraction(*s.Probability)
	}
	return s
}

type Connections map[Pathway]Synapse

// Pathways returns the connection keys sorted by their string form.
func (c Connections) Pathways() []Pathway {
	keys := slices.Collect(maps.Keys(c))
	slices.SortFunc(keys, func(a, b Pathway) int { return strings.Compare(a.String(), b.String()) })
	return keys
}

// SpindleModel maps an afferent type to its firing-rate expression in
// terms of stretch and stretch_velocity.
type SpindleModel map[string]string

// Recruitment holds the normalized stimulation currents at which 10% and
// 90% of a population is recruited. Nil means the field was not given.
type Recruitment struct {
	Threshold10  *float64 `yaml:"threshold_10pct,omitempty"`
	Saturation90 *float64 `yaml:"saturation_90pct,omitempty"`
}

// Fraction returns a pointer to v for building Recruitment literals.
func Fraction(v float64) *float64 {
	return &v
}

func (r Recruitment) clone() Recruitment {
	out := Recruitment{}
	if r.Threshold10 != nil {
		out.Threshold10 = Fraction(*r.Threshold10)
	}
	if r.Saturation90 != nil {
		out.Saturation90 = Fraction(*r.Saturation90)
	}
	return out
}

type EESProfile map[string]Recruitment

// ActivationState is the muscle activation state of one motoneuron's
// fibers at t=0: action potential, calcium, calcium-troponin binding and
// activation.
type ActivationState struct {
	U0 [2]float64 `yaml:"u0,flow"`
	C0 [2]float64 `yaml:"c0,flow"`
	P0 float64    `yaml:"P0"`
	A0 float64    `yaml:"a0"`
}

// InitialActivation is indexed by muscle, then by motoneuron.
type InitialActivation [][]ActivationState

type InitialPotentials map[string]quantity.Quantity

// Config is a reflex arc description shared by every topology. The
// topology name selects the rule set that validates it.
type Config struct {
	Topology            string
	ReactionTime        quantity.Quantity
	Muscles             []string
	Joint               string
	Biophysical         BiophysicalParams
	EES                 EESProfile
	FastTypeMU          bool
	InitialStateOpenSim map[string]float64

	Neurons           Populations
	Connections       Connections
	Spindle           SpindleModel
	InitialPotentials InitialPotentials
	InitialActivation InitialActivation
}

func (c *Config) NumberMuscles() int {
	return len(c.Muscles)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Muscles = slices.Clone(c.Muscles)
	out.Biophysical = maps.Clone(c.Biophysical)
	out.InitialStateOpenSim = maps.Clone(c.InitialStateOpenSim)
	out.Neurons = maps.Clone(c.Neurons)
	if c.Connections != nil {
		out.Connections = make(Connections, len(c.Connections))
		for k, v := range c.Connections {
			out.Connections[k] = v.clone()
		}
	}
	out.Spindle = maps.Clone(c.Spindle)
	out.InitialPotentials = maps.Clone(c.InitialPotentials)
	if c.EES != nil {
		out.EES = make(EESProfile, len(c.EES))
		for k, v := range c.EES {
			out.EES[k] = v.clone()
		}
	}
	if c.InitialActivation != nil {
		out.InitialActivation = make(InitialActivation, len(c.InitialActivation))
		for i, states := range c.InitialActivation {
			out.InitialActivation[i] = slices.Clone(states)
		}
	}
	return &out
}
