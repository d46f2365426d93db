package reflex

import "fmt"

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

type RuleID string

// Finding is one rule violation.
type Finding struct {
	Rule     RuleID
	Severity Severity
	Message  string
}

// Rule checks one constraint. Check must not modify the config.
type Rule struct {
	ID    RuleID
	Check func(c *Config) []Finding
}

// RuleSet is the ordered list of rules for a topology.
type RuleSet []Rule

// Run evaluates every rule and collects all findings in rule order.
func (rs RuleSet) Run(c *Config) []Finding {
	var findings []Finding
	for _, r := range rs {
		findings = append(findings, r.Check(c)...)
	}
	return findings
}

// IDs returns the rule identifiers in evaluation order.
func (rs RuleSet) IDs() []RuleID {
	ids := make([]RuleID, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func errorf(id RuleID, format string, args ...any) Finding {
	return Finding{Rule: id, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func warnf(id RuleID, format string, args ...any) Finding {
	return Finding{Rule: id, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}
