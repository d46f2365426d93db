package reflex

import (
	"maps"
	"slices"

	"github.com/san-kum/reflexarc/internal/quantity"
)

// MergePolicy states how an override field combines with its default.
type MergePolicy int

const (
	// MergeKeys overwrites or adds each given key and keeps the rest.
	MergeKeys MergePolicy = iota
	// ReplaceValue swaps a scalar or sequence field wholesale.
	ReplaceValue
	// ReplaceStructure swaps a derived structure wholesale, after the
	// defaults for it have been computed from the merged fields.
	ReplaceStructure
)

func (p MergePolicy) String() string {
	switch p {
	case MergeKeys:
		return "merge-keys"
	case ReplaceValue:
		return "replace-value"
	case ReplaceStructure:
		return "replace-structure"
	default:
		return "unknown"
	}
}

// Overrides holds caller values for a reflex configuration. Nil fields and
// empty maps keep the default.
type Overrides struct {
	ReactionTime        *quantity.Quantity
	Biophysical         BiophysicalParams
	Muscles             []string
	Joint               *string
	Neurons             Populations
	Connections         Connections
	Spindle             SpindleModel
	EES                 EESProfile
	FastTypeMU          *bool
	InitialPotentials   InitialPotentials
	InitialActivation   InitialActivation
	InitialStateOpenSim map[string]float64

	// Remove deletes keys from the key-merged maps after merging.
	Remove Removals
}

// Removals lists keys to drop from the defaults.
type Removals struct {
	Neurons     []string
	Connections []Pathway
	Spindle     []string
	Biophysical []string
	EES         []string
}

type overrideField struct {
	name   string
	policy MergePolicy
	apply  func(c *Config, o *Overrides)
}

var overrideFields = []overrideField{
	{"reaction_time", ReplaceValue, func(c *Config, o *Overrides) {
		if o.ReactionTime != nil {
			c.ReactionTime = *o.ReactionTime
		}
	}},
	{"biophysical_params", MergeKeys, func(c *Config, o *Overrides) {
		c.Biophysical = mergeKeys(c.Biophysical, o.Biophysical)
		for _, k := range o.Remove.Biophysical {
			delete(c.Biophysical, k)
		}
	}},
	{"muscles_names", ReplaceValue, func(c *Config, o *Overrides) {
		if o.Muscles != nil {
			c.Muscles = slices.Clone(o.Muscles)
		}
	}},
	{"associated_joint", ReplaceValue, func(c *Config, o *Overrides) {
		if o.Joint != nil {
			c.Joint = *o.Joint
		}
	}},
	{"custom_neurons", MergeKeys, func(c *Config, o *Overrides) {
		c.Neurons = mergeKeys(c.Neurons, o.Neurons)
		for _, k := range o.Remove.Neurons {
			delete(c.Neurons, k)
		}
	}},
	{"custom_connections", MergeKeys, func(c *Config, o *Overrides) {
		if c.Connections == nil && len(o.Connections) > 0 {
			c.Connections = Connections{}
		}
		for k, v := range o.Connections {
			c.Connections[k] = v.clone()
		}
		for _, k := range o.Remove.Connections {
			delete(c.Connections, k)
		}
	}},
	{"custom_spindle", MergeKeys, func(c *Config, o *Overrides) {
		c.Spindle = mergeKeys(c.Spindle, o.Spindle)
		for _, k := range o.Remove.Spindle {
			delete(c.Spindle, k)
		}
	}},
	{"ees_recruitment_profile", MergeKeys, func(c *Config, o *Overrides) {
		if c.EES == nil {
			c.EES = EESProfile{}
		}
		for k, v := range o.EES {
			c.EES[k] = v.clone()
		}
		for _, k := range o.Remove.EES {
			delete(c.EES, k)
		}
	}},
	{"fast_type_mu", ReplaceValue, func(c *Config, o *Overrides) {
		if o.FastTypeMU != nil {
			c.FastTypeMU = *o.FastTypeMU
		}
	}},
	{"initial_state_opensim", ReplaceValue, func(c *Config, o *Overrides) {
		if o.InitialStateOpenSim != nil {
			c.InitialStateOpenSim = maps.Clone(o.InitialStateOpenSim)
		}
	}},
	{"custom_initial_potentials", ReplaceStructure, func(c *Config, o *Overrides) {
		if o.InitialPotentials != nil {
			c.InitialPotentials = maps.Clone(o.InitialPotentials)
		}
	}},
	{"custom_initial_condition_spike_activation", ReplaceStructure, func(c *Config, o *Overrides) {
		if o.InitialActivation != nil {
			c.InitialActivation = make(InitialActivation, len(o.InitialActivation))
			for i, states := range o.InitialActivation {
				c.InitialActivation[i] = slices.Clone(states)
			}
		}
	}},
}

// FieldPolicies returns the merge policy of every overridable field, keyed
// by its construction parameter name.
func FieldPolicies() map[string]MergePolicy {
	out := make(map[string]MergePolicy, len(overrideFields))
	for _, f := range overrideFields {
		out[f.name] = f.policy
	}
	return out
}

// apply runs every override field whose policy is in the given set.
func (o *Overrides) apply(c *Config, policies ...MergePolicy) {
	for _, f := range overrideFields {
		if slices.Contains(policies, f.policy) {
			f.apply(c, o)
		}
	}
}

func mergeKeys[M ~map[K]V, K comparable, V any](dst, src M) M {
	if dst == nil {
		dst = make(M, len(src))
	}
	maps.Copy(dst, src)
	return dst
}
