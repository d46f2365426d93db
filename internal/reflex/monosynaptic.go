package reflex

import (
	"fmt"
	"strings"

	"github.com/san-kum/reflexarc/internal/quantity"
)

const Monosynaptic = "monosynaptic"

const (
	RuleMuscleCount         RuleID = "muscle-count"
	RuleRequiredNeurons     RuleID = "required-neurons"
	RuleUnexpectedNeurons   RuleID = "unexpected-neurons"
	RuleRequiredConnections RuleID = "required-connections"
	RuleSpindleEquation     RuleID = "spindle-equation"
	RuleEESTypes            RuleID = "ees-types"
	RuleInhibitoryParams    RuleID = "inhibitory-params"
	RuleBiophysicalKeys     RuleID = "biophysical-keys"
	RuleBiophysicalUnits    RuleID = "biophysical-units"
	RuleEESFields           RuleID = "ees-fields"
	RuleEESRange            RuleID = "ees-range"
	RuleEESOrder            RuleID = "ees-order"
	RuleNeuronCounts        RuleID = "neuron-counts"
	RuleConnectionSynapse   RuleID = "connection-synapse"
	RuleReactionTime        RuleID = "reaction-time"
	RuleActivationSize      RuleID = "activation-size"
)

var (
	monosynapticNeurons     = []string{Ia, MN}
	monosynapticConnections = []Pathway{{Source: Ia, Target: MN}}
)

// RequiredBiophysical lists the membrane constants every topology needs and
// the dimension each must carry, in reporting order.
var RequiredBiophysical = []struct {
	Key string
	Dim quantity.Dimension
}{
	{ParamRefractory, quantity.Time},
	{ParamLeakPotential, quantity.Voltage},
	{ParamLeakConductance, quantity.Conductance},
	{ParamCapacitance, quantity.Capacitance},
	{ParamExcReversal, quantity.Voltage},
	{ParamExcTau, quantity.Time},
	{ParamThreshold, quantity.Voltage},
}

// MonosynapticTopology is the Ia -> MN reflex arc without interneurons.
func MonosynapticTopology() *Topology {
	return &Topology{
		Name:     Monosynaptic,
		Title:    "Monosynaptic",
		defaults: monosynapticBase,
		derive:   deriveMonosynaptic,
		Rules:    MonosynapticRules(),
	}
}

// MonosynapticRules returns the validation rules for the monosynaptic reflex.
func MonosynapticRules() RuleSet {
	return RuleSet{
		{RuleMuscleCount, checkMuscleCount},
		{RuleRequiredNeurons, checkRequiredNeurons},
		{RuleUnexpectedNeurons, checkUnexpectedNeurons},
		{RuleRequiredConnections, checkRequiredConnections},
		{RuleSpindleEquation, checkSpindle},
		{RuleEESTypes, checkEESTypes},
		{RuleInhibitoryParams, checkInhibitory},
		{RuleBiophysicalKeys, checkBiophysicalKeys},
		{RuleBiophysicalUnits, checkBiophysicalUnits},
		{RuleEESFields, checkEESFields},
		{RuleEESRange, checkEESRange},
		{RuleEESOrder, checkEESOrder},
		{RuleNeuronCounts, checkNeuronCounts},
		{RuleConnectionSynapse, checkConnections},
		{RuleReactionTime, checkReactionTime},
		{RuleActivationSize, checkActivationSize},
	}
}

func checkMuscleCount(c *Config) []Finding {
	if c.NumberMuscles() != 1 {
		return []Finding{errorf(RuleMuscleCount,
			"Monosynaptic reflex should have exactly 1 muscle. Got: %d", c.NumberMuscles())}
	}
	return nil
}

func checkRequiredNeurons(c *Config) []Finding {
	var missing []string
	for _, n := range monosynapticNeurons {
		if _, ok := c.Neurons[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return []Finding{errorf(RuleRequiredNeurons,
			"Missing required neuron types for monosynaptic reflex: %v", missing)}
	}
	return nil
}

func checkUnexpectedNeurons(c *Config) []Finding {
	var unexpected []string
	for _, n := range c.Neurons.Labels() {
		if n != Ia && n != MN {
			unexpected = append(unexpected, n)
		}
	}
	if len(unexpected) > 0 {
		return []Finding{warnf(RuleUnexpectedNeurons,
			"Unexpected neuron types for monosynaptic reflex: %v", unexpected)}
	}
	return nil
}

func checkRequiredConnections(c *Config) []Finding {
	var missing []string
	for _, p := range monosynapticConnections {
		if _, ok := c.Connections[p]; !ok {
			missing = append(missing, p.String())
		}
	}
	if len(missing) > 0 {
		return []Finding{errorf(RuleRequiredConnections,
			"Missing required connections for monosynaptic reflex: %v", missing)}
	}
	return nil
}

func checkSpindle(c *Config) []Finding {
	if strings.TrimSpace(c.Spindle[Ia]) == "" {
		return []Finding{errorf(RuleSpindleEquation,
			"Missing Ia equation in spindle model for monosynaptic reflex")}
	}
	return nil
}

func checkEESTypes(c *Config) []Finding {
	var out []Finding
	for _, n := range monosynapticNeurons {
		if _, ok := c.EES[n]; !ok {
			out = append(out, errorf(RuleEESTypes,
				"Missing EES recruitment parameters for neuron type '%s'", n))
		}
	}
	return out
}

func checkInhibitory(c *Config) []Finding {
	_, inh := c.Biophysical[ParamInhReversal]
	_, tau := c.Biophysical[ParamInhTau]
	if inh || tau {
		return []Finding{warnf(RuleInhibitoryParams,
			"Inhibitory parameters present but no inhibitory neurons in monosynaptic reflex")}
	}
	return nil
}

func checkBiophysicalKeys(c *Config) []Finding {
	var out []Finding
	for _, p := range RequiredBiophysical {
		if _, ok := c.Biophysical[p.Key]; !ok {
			out = append(out, errorf(RuleBiophysicalKeys,
				"Missing mandatory biophysical parameter: '%s'", p.Key))
		}
	}
	return out
}

func checkBiophysicalUnits(c *Config) []Finding {
	var out []Finding
	for _, p := range RequiredBiophysical {
		v, ok := c.Biophysical[p.Key]
		if !ok || v.Dim == p.Dim {
			continue
		}
		out = append(out, errorf(RuleBiophysicalUnits,
			"Parameter '%s' has incorrect unit. Expected unit compatible with %s (%s), but got %s",
			p.Key, p.Dim.BaseUnit(), p.Dim, describeUnit(v)))
	}
	return out
}

func describeUnit(q quantity.Quantity) string {
	if q.Dim == quantity.Dimensionless {
		return "a dimensionless value"
	}
	return fmt.Sprintf("%s (%s)", q.Unit(), q.Dim)
}

func checkEESFields(c *Config) []Finding {
	var out []Finding
	for _, n := range monosynapticNeurons {
		r, ok := c.EES[n]
		if !ok {
			continue
		}
		if r.Threshold10 == nil {
			out = append(out, errorf(RuleEESFields,
				"Missing 'threshold_10pct' in EES recruitment parameters for '%s'", n))
		}
		if r.Saturation90 == nil {
			out = append(out, errorf(RuleEESFields,
				"Missing 'saturation_90pct' in EES recruitment parameters for '%s'", n))
		}
	}
	return out
}

func checkEESRange(c *Config) []Finding {
	var out []Finding
	for _, n := range monosynapticNeurons {
		r, ok := c.EES[n]
		if !ok {
			continue
		}
		if outOfUnit(r.Threshold10) || outOfUnit(r.Saturation90) {
			out = append(out, errorf(RuleEESRange,
				"EES parameters for '%s' must be between 0 and 1. Got: threshold=%s, saturation=%s",
				n, formatFraction(r.Threshold10), formatFraction(r.Saturation90)))
		}
	}
	return out
}

func checkEESOrder(c *Config) []Finding {
	var out []Finding
	for _, n := range monosynapticNeurons {
		r, ok := c.EES[n]
		if !ok || r.Threshold10 == nil || r.Saturation90 == nil {
			continue
		}
		if !(*r.Threshold10 < *r.Saturation90) {
			out = append(out, errorf(RuleEESOrder,
				"Threshold must be less than saturation for '%s'. Got: threshold=%g, saturation=%g",
				n, *r.Threshold10, *r.Saturation90))
		}
	}
	return out
}

// outOfUnit reports whether a present value lies outside [0, 1]. NaN counts
// as outside.
func outOfUnit(v *float64) bool {
	return v != nil && !(*v >= 0 && *v <= 1)
}

func formatFraction(v *float64) string {
	if v == nil {
		return "missing"
	}
	return fmt.Sprintf("%g", *v)
}

func checkNeuronCounts(c *Config) []Finding {
	var out []Finding
	for _, n := range c.Neurons.Labels() {
		if count := c.Neurons[n]; count <= 0 {
			out = append(out, errorf(RuleNeuronCounts,
				"Neuron population '%s' must be positive. Got: %d", n, count))
		}
	}
	return out
}

func checkConnections(c *Config) []Finding {
	var out []Finding
	for _, p := range c.Connections.Pathways() {
		syn := c.Connections[p]
		if syn.Weight.Dim != quantity.Conductance {
			out = append(out, errorf(RuleConnectionSynapse,
				"Connection %s weight has incorrect unit. Expected unit compatible with %s (%s), but got %s",
				p, quantity.Conductance.BaseUnit(), quantity.Conductance, describeUnit(syn.Weight)))
		}
		switch {
		case syn.Probability == nil:
			out = append(out, errorf(RuleConnectionSynapse,
				"Missing 'probability' for connection %s", p))
		case !(*syn.Probability >= 0 && *syn.Probability <= 1):
			out = append(out, errorf(RuleConnectionSynapse,
				"Connection %s probability must be between 0 and 1. Got: %g", p, *syn.Probability))
		}
	}
	return out
}

func checkReactionTime(c *Config) []Finding {
	rt := c.ReactionTime
	if rt.Dim != quantity.Time {
		return []Finding{errorf(RuleReactionTime,
			"Reaction time has incorrect unit. Expected unit compatible with %s (%s), but got %s",
			quantity.Time.BaseUnit(), quantity.Time, describeUnit(rt))}
	}
	if rt.Value < 0 {
		return []Finding{errorf(RuleReactionTime, "Reaction time must not be negative. Got: %s", rt)}
	}
	return nil
}

func checkActivationSize(c *Config) []Finding {
	mn, ok := c.Neurons[MN]
	if !ok {
		return nil
	}
	var out []Finding
	for i, states := range c.InitialActivation {
		if len(states) != mn {
			out = append(out, warnf(RuleActivationSize,
				"Initial activation state for muscle %d has %d records but MN population is %d",
				i, len(states), mn))
		}
	}
	return out
}
