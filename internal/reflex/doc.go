// Package reflex builds and validates reflex arc configurations.
//
// A configuration is assembled in four stages:
//
//   - [Topology.Defaults]: canonical values for the reflex topology
//   - [Overrides]: caller values merged on top, following [FieldPolicies]
//   - derived structures (initial potentials, activation state) filled in
//   - [Topology.Rules]: every rule runs and its findings land in a [Report]
//
// # Example
//
//	cfg, report, err := reflex.NewMonosynaptic(reflex.Overrides{
//		Neurons: reflex.Populations{"MN": 600},
//	})
//	if err != nil {
//		// err is a *ConfigurationError listing every violated rule
//	}
//	_ = report.Warnings()
//
// # Thread Safety
//
// A Config is owned by the goroutine building it until Build returns.
// Validation never mutates it, so a built Config may be shared read-only.
package reflex
