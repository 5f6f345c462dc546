package waf

// RuleAction is the verdict a rule applies to matching requests.
type RuleAction string

const (
	ActionAllow RuleAction = "ALLOW"
	ActionBlock RuleAction = "BLOCK"
	ActionCount RuleAction = "COUNT"
)

// ParseRuleAction parses a user-supplied action string.
func ParseRuleAction(s string) (RuleAction, bool) {
	switch s {
	case "allow", "ALLOW":
		return ActionAllow, true
	case "block", "BLOCK":
		return ActionBlock, true
	case "count", "COUNT":
		return ActionCount, true
	}
	return "", false
}

// OverrideAction applies to managed rule-group references, which carry their
// own per-sub-rule verdicts. OverrideNone defers to the vendor verdicts;
// OverrideCount downgrades everything the group would do to counting.
type OverrideAction string

const (
	OverrideNone  OverrideAction = "NONE"
	OverrideCount OverrideAction = "COUNT"
)

// VisibilityConfig controls per-rule metric emission and request sampling.
type VisibilityConfig struct {
	MetricName     string `json:"metric_name" yaml:"metric_name"`
	Metrics        bool   `json:"metrics" yaml:"metrics"`
	SampleRequests bool   `json:"sample_requests" yaml:"sample_requests"`
}

// ResolvedRule is one fully specified evaluation rule, ready for handoff to
// the deployment collaborator. Exactly one of Action and Override is set:
// rules with their own statement carry an Action, managed rule-group
// references carry an Override.
type ResolvedRule struct {
	Name       string
	Priority   int
	Statement  Statement
	Action     *RuleAction
	Override   *OverrideAction
	Visibility VisibilityConfig
}

// Policy is the compiled output: an immutable ordered rule list plus the
// resolved scope and default action.
type Policy struct {
	Name          string
	Scope         Scope
	DefaultAction RuleAction
	Rules         []ResolvedRule
}

func actionRef(a RuleAction) *RuleAction {
	return &a
}

func overrideRef(o OverrideAction) *OverrideAction {
	return &o
}
