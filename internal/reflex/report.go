package reflex

import (
	"strings"

	"go.uber.org/zap"
)

// Report holds every finding of one validation pass.
type Report struct {
	Topology string
	Title    string
	Findings []Finding
}

func (r *Report) filter(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) Errors() []Finding   { return r.filter(SeverityError) }
func (r *Report) Warnings() []Finding { return r.filter(SeverityWarning) }

func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Err returns a *ConfigurationError listing every error finding, or nil.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &ConfigurationError{Title: r.Title, Findings: errs}
}

// Reporter turns a report into an outcome: an error when any error finding
// exists, otherwise one aggregated warning log entry when warnings exist.
type Reporter struct {
	logger *zap.Logger
}

func NewReporter(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{logger: logger}
}

func (rp *Reporter) Emit(r *Report) error {
	if err := r.Err(); err != nil {
		return err
	}

	warnings := r.Warnings()
	if len(warnings) == 0 {
		rp.logger.Debug("configuration valid", zap.String("topology", r.Topology))
		return nil
	}

	rules := make([]string, len(warnings))
	msgs := make([]string, len(warnings))
	for i, w := range warnings {
		rules[i] = string(w.Rule)
		msgs[i] = w.Message
	}
	rp.logger.Warn(r.Title+" configuration issues",
		zap.String("topology", r.Topology),
		zap.Strings("rules", rules),
		zap.String("details", strings.Join(msgs, "\n")),
	)
	return nil
}
