package reflex_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/san-kum/reflexarc/internal/quantity"
	"github.com/san-kum/reflexarc/internal/reflex"
)

func ruleIDs(fs []reflex.Finding) []reflex.RuleID {
	ids := make([]reflex.RuleID, len(fs))
	for i, f := range fs {
		ids[i] = f.Rule
	}
	return ids
}

var _ = Describe("Monosynaptic", func() {
	var build func(ov reflex.Overrides) (*reflex.Config, *reflex.Report, error)

	BeforeEach(func() {
		build = func(ov reflex.Overrides) (*reflex.Config, *reflex.Report, error) {
			return reflex.NewMonosynaptic(ov, reflex.WithLogger(zap.NewNop()))
		}
	})

	Context("with no overrides", func() {
		It("builds the canonical reflex arc without findings", func() {
			c, report, err := build(reflex.Overrides{})
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Findings).To(BeEmpty())
			Expect(c.Neurons).To(Equal(reflex.Populations{"Ia": 410, "MN": 500}))
			Expect(c.Connections).To(HaveLen(1))
			Expect(c.Connections).To(HaveKey(reflex.Pathway{Source: "Ia", Target: "MN"}))
			Expect(c.Spindle).To(HaveKeyWithValue("Ia", reflex.DefaultIaSpindle))
			Expect(c.Muscles).To(Equal([]string{"soleus_r"}))
		})
	})

	Context("when overriding populations", func() {
		It("merges instead of replacing", func() {
			c, _, err := build(reflex.Overrides{Neurons: reflex.Populations{"MN": 600}})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Neurons).To(HaveKeyWithValue("Ia", 410))
			Expect(c.Neurons).To(HaveKeyWithValue("MN", 600))
		})

		It("warns about labels outside Ia and MN", func() {
			_, report, err := build(reflex.Overrides{Neurons: reflex.Populations{"Ib": 120, "II": 80}})
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Warnings()).To(HaveLen(1))
			Expect(report.Warnings()[0].Message).To(ContainSubstring("[II Ib]"))
		})
	})

	Context("when overriding connections", func() {
		It("keeps the default Ia->MN pathway on merge", func() {
			c, _, err := build(reflex.Overrides{Connections: reflex.Connections{
				{Source: "Ia", Target: "Ib"}: {Weight: quantity.Nanosiemens(1), Probability: reflex.Fraction(0.5)},
			}})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Connections).To(HaveLen(2))
		})

		It("fails when Ia->MN is explicitly removed", func() {
			_, report, err := build(reflex.Overrides{Remove: reflex.Removals{
				Connections: []reflex.Pathway{{Source: "Ia", Target: "MN"}},
			}})
			Expect(err).To(MatchError(ContainSubstring("Missing required connections")))
			Expect(ruleIDs(report.Errors())).To(ConsistOf(reflex.RuleRequiredConnections))
		})
	})

	Context("with biophysical overrides", func() {
		It("rejects a voltage given for the refractory period", func() {
			_, report, err := build(reflex.Overrides{Biophysical: reflex.BiophysicalParams{
				"T_refr": quantity.Millivolts(5),
			}})
			Expect(err).To(MatchError(reflex.ErrConfiguration))
			Expect(err.Error()).To(ContainSubstring("'T_refr'"))
			Expect(err.Error()).To(ContainSubstring("second (time)"))
			Expect(ruleIDs(report.Errors())).To(ConsistOf(reflex.RuleBiophysicalUnits))
		})

		It("reports one error per mismatched key", func() {
			_, report, err := build(reflex.Overrides{Biophysical: reflex.BiophysicalParams{
				"gL": quantity.Nanofarads(1),
				"Cm": quantity.Nanosiemens(1),
			}})
			Expect(err).To(HaveOccurred())
			Expect(report.Errors()).To(HaveLen(2))
		})

		It("accepts a superset of keys with an inhibitory warning", func() {
			c, report, err := build(reflex.Overrides{Biophysical: reflex.BiophysicalParams{
				"E_inh": quantity.Millivolts(-75),
			}})
			Expect(err).NotTo(HaveOccurred())
			Expect(c).NotTo(BeNil())
			Expect(report.Errors()).To(BeEmpty())
			Expect(report.Warnings()).To(HaveLen(1))
			Expect(report.Warnings()[0].Message).To(ContainSubstring("Inhibitory parameters"))
			Expect(report.Warnings()[0].Severity).To(Equal(reflex.SeverityWarning))
		})
	})

	DescribeTable("EES recruitment profile",
		func(r reflex.Recruitment, rules ...reflex.RuleID) {
			_, report, err := build(reflex.Overrides{EES: reflex.EESProfile{"MN": r}})
			if len(rules) == 0 {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(HaveOccurred())
			Expect(ruleIDs(report.Errors())).To(ConsistOf(rules))
		},
		Entry("valid high-threshold motor axons",
			reflex.Recruitment{Threshold10: reflex.Fraction(0.6), Saturation90: reflex.Fraction(0.95)}),
		Entry("threshold above saturation",
			reflex.Recruitment{Threshold10: reflex.Fraction(0.8), Saturation90: reflex.Fraction(0.5)},
			reflex.RuleEESOrder),
		Entry("threshold equal to saturation",
			reflex.Recruitment{Threshold10: reflex.Fraction(0.5), Saturation90: reflex.Fraction(0.5)},
			reflex.RuleEESOrder),
		Entry("threshold outside [0,1]",
			reflex.Recruitment{Threshold10: reflex.Fraction(1.5), Saturation90: reflex.Fraction(1.8)},
			reflex.RuleEESRange),
		Entry("negative saturation",
			reflex.Recruitment{Threshold10: reflex.Fraction(-0.2), Saturation90: reflex.Fraction(-0.1)},
			reflex.RuleEESRange),
		Entry("both sub-fields missing",
			reflex.Recruitment{},
			reflex.RuleEESFields, reflex.RuleEESFields),
		Entry("NaN threshold",
			reflex.Recruitment{Threshold10: reflex.Fraction(math.NaN()), Saturation90: reflex.Fraction(0.9)},
			reflex.RuleEESRange, reflex.RuleEESOrder),
		Entry("missing threshold with saturation out of range",
			reflex.Recruitment{Saturation90: reflex.Fraction(1.2)},
			reflex.RuleEESFields, reflex.RuleEESRange),
	)

	Context("with several violations", func() {
		It("reports every error in one message", func() {
			_, report, err := build(reflex.Overrides{
				Muscles: []string{"soleus_r", "tibialis_r"},
				EES: reflex.EESProfile{
					"MN": {Threshold10: reflex.Fraction(0.8), Saturation90: reflex.Fraction(0.5)},
				},
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("exactly 1 muscle"))
			Expect(err.Error()).To(ContainSubstring("Threshold must be less than saturation"))
			Expect(ruleIDs(report.Errors())).To(ConsistOf(reflex.RuleMuscleCount, reflex.RuleEESOrder))
		})
	})

	Context("when validated twice", func() {
		It("returns the same report and leaves the config untouched", func() {
			c, _, err := build(reflex.Overrides{})
			Expect(err).NotTo(HaveOccurred())
			snapshot := c.Clone()

			first, err := reflex.Validate(c)
			Expect(err).NotTo(HaveOccurred())
			second, err := reflex.Validate(c)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(Equal(first))
			Expect(first.Err()).To(BeNil())
			Expect(c).To(Equal(snapshot))
		})
	})
})
