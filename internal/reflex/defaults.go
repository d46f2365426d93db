package reflex

import "github.com/san-kum/reflexarc/internal/quantity"

const (
	DefaultMuscle      = "soleus_r"
	DefaultJoint       = "ankle_angle_r"
	DefaultIaCount     = 410
	DefaultMNCount     = 500
	DefaultProbability = 0.7

	// DefaultIaSpindle is the Ia firing rate (Hz) as a function of muscle
	// stretch and stretch velocity.
	DefaultIaSpindle = "10+ 2*stretch + 4.3*sign(stretch_velocity)*abs(stretch_velocity)**0.6"
)

var (
	DefaultReactionTime = quantity.Milliseconds(25)
	DefaultWeight       = quantity.Nanosiemens(2.1)
)

// DefaultBiophysical returns a fresh copy of the default membrane constants.
func DefaultBiophysical() BiophysicalParams {
	return BiophysicalParams{
		ParamRefractory:      quantity.Milliseconds(5),
		ParamLeakPotential:   quantity.Millivolts(-70),
		ParamLeakConductance: quantity.Nanosiemens(10),
		ParamCapacitance:     quantity.Nanofarads(0.3),
		ParamExcReversal:     quantity.Millivolts(0),
		ParamExcTau:          quantity.Milliseconds(0.5),
		ParamThreshold:       quantity.Millivolts(-50),
	}
}

// DefaultEESProfile recruits afferents at lower currents than motor axons.
func DefaultEESProfile() EESProfile {
	return EESProfile{
		Ia: {Threshold10: Fraction(0.3), Saturation90: Fraction(0.7)},
		MN: {Threshold10: Fraction(0.7), Saturation90: Fraction(0.9)},
	}
}

// monosynapticBase returns the defaults that do not depend on other fields.
func monosynapticBase() *Config {
	return &Config{
		Topology:     Monosynaptic,
		ReactionTime: DefaultReactionTime,
		Muscles:      []string{DefaultMuscle},
		Joint:        DefaultJoint,
		Biophysical:  DefaultBiophysical(),
		EES:          DefaultEESProfile(),
		FastTypeMU:   true,
		Neurons: Populations{
			Ia: DefaultIaCount,
			MN: DefaultMNCount,
		},
		Connections: Connections{
			{Source: Ia, Target: MN}: {Weight: DefaultWeight, Probability: Fraction(DefaultProbability)},
		},
		Spindle: SpindleModel{
			Ia: DefaultIaSpindle,
		},
	}
}

// deriveMonosynaptic fills the structures computed from other fields: the
// MN resting potential from Eleaky and one zero activation record per MN.
func deriveMonosynaptic(c *Config) {
	c.InitialPotentials = InitialPotentials{}
	if eleaky, ok := c.Biophysical[ParamLeakPotential]; ok {
		c.InitialPotentials[MN] = eleaky
	}
	c.InitialActivation = InitialActivation{ZeroActivation(c.Neurons[MN])}
}

// ZeroActivation returns n zero-valued activation records.
func ZeroActivation(n int) []ActivationState {
	if n < 0 {
		n = 0
	}
	return make([]ActivationState, n)
}

// DefaultMonosynaptic returns the out-of-the-box monosynaptic configuration.
// Each call returns a new value.
func DefaultMonosynaptic() *Config {
	return MonosynapticTopology().Defaults()
}
