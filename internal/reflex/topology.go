package reflex

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/reflexarc/internal/observability"
)

// Topology couples the defaults of a reflex arc with the rule set that
// validates it.
type Topology struct {
	Name  string
	Title string
	Rules RuleSet

	defaults func() *Config
	derive   func(c *Config)
}

// NewTopology assembles a topology from its parts. derive may be nil.
func NewTopology(name, title string, defaults func() *Config, derive func(c *Config), rules RuleSet) *Topology {
	return &Topology{Name: name, Title: title, Rules: rules, defaults: defaults, derive: derive}
}

// Defaults returns a fresh default configuration with derived structures
// filled in.
func (t *Topology) Defaults() *Config {
	c := t.defaults()
	c.Topology = t.Name
	if t.derive != nil {
		t.derive(c)
	}
	return c
}

// Merge returns the defaults with ov applied.
func (t *Topology) Merge(ov Overrides) *Config {
	c := t.defaults()
	c.Topology = t.Name
	ov.apply(c, MergeKeys, ReplaceValue)
	if t.derive != nil {
		t.derive(c)
	}
	ov.apply(c, ReplaceStructure)
	return c
}

// Validate runs the rule set against c. It never modifies c.
func (t *Topology) Validate(c *Config) *Report {
	return &Report{Topology: t.Name, Title: t.Title, Findings: t.Rules.Run(c)}
}

type buildOptions struct {
	logger *zap.Logger
}

type Option func(*buildOptions)

// WithLogger sets the logger warnings are emitted to.
func WithLogger(l *zap.Logger) Option {
	return func(o *buildOptions) {
		o.logger = l
	}
}

// Build merges ov into the defaults, validates the result and reports it.
// On error-severity findings the config is nil and err is a
// *ConfigurationError; the report is returned either way.
func (t *Topology) Build(ov Overrides, opts ...Option) (*Config, *Report, error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = observability.GetLogger()
	}

	c := t.Merge(ov)
	report := t.Validate(c)
	if err := NewReporter(o.logger).Emit(report); err != nil {
		return nil, report, err
	}
	return c, report, nil
}

// NewMonosynaptic builds and validates a monosynaptic reflex configuration.
func NewMonosynaptic(ov Overrides, opts ...Option) (*Config, *Report, error) {
	return MonosynapticTopology().Build(ov, opts...)
}

type Registry struct {
	mu         sync.RWMutex
	topologies map[string]*Topology
}

func NewRegistry() *Registry {
	r := &Registry{topologies: make(map[string]*Topology)}
	r.Register(MonosynapticTopology())
	return r
}

func (r *Registry) Register(t *Topology) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topologies[t.Name] = t
}

func (r *Registry) Get(name string) (*Topology, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.topologies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopology, name)
	}
	return t, nil
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.topologies))
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry holding the built-in topologies.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Validate re-runs the rules of c's topology from the default registry.
func Validate(c *Config) (*Report, error) {
	t, err := defaultRegistry.Get(c.Topology)
	if err != nil {
		return nil, err
	}
	return t.Validate(c), nil
}
