package waf

import (
	"fmt"

	"grimm.is/wafplan/internal/validation"
)

// Fixed rule names for the single-instance categories.
const (
	RateLimitRuleName = "RateLimitRule"
	GeoBlockRuleName  = "GeoBlockRule"
)

// RateLimitDecl declares a source-IP rate limit over the fixed five-minute
// window. ScopeDown optionally restricts which requests count.
type RateLimitDecl struct {
	Limit     int
	Priority  *int
	ScopeDown Statement
}

// GeoBlockDecl declares a country-code block list.
type GeoBlockDecl struct {
	CountryCodes []string
	Priority     *int
}

// IPSetDecl declares an allow or block rule backed by an externally
// materialized IP set.
type IPSetDecl struct {
	Name      string
	Addresses []string
	IPVersion IPVersion
	Priority  *int
	Action    RuleAction
}

// RuleGroupDecl declares a custom managed rule-group reference beyond the
// baseline catalog.
type RuleGroupDecl struct {
	Name          string
	Vendor        string
	Priority      *int
	ExcludedRules []string
}

// Input is everything one compilation consumes. It is read once and never
// mutated; every category is optional.
type Input struct {
	Name          string
	Region        Region
	Scope         *Scope
	DefaultAction *RuleAction

	RateLimit    *RateLimitDecl
	GeoBlock     *GeoBlockDecl
	IPSets       []IPSetDecl
	ManagedRules bool
	RuleGroups   []RuleGroupDecl
}

// Compile turns the declarations into an ordered, collision-free rule list
// plus the resolved scope. Categories are processed in a fixed order: rate
// limit, geo block, IP sets (declaration order), baseline managed rules,
// custom rule groups. Each synthesized rule consumes exactly one priority.
//
// Compile is pure and all-or-nothing: any error aborts with no partial list.
func Compile(in Input) (*Policy, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("policy name cannot be empty")
	}

	scope, err := ResolveScope(in.Scope, in.Region)
	if err != nil {
		return nil, err
	}

	defaultAction := ActionAllow
	if in.DefaultAction != nil {
		defaultAction = *in.DefaultAction
	}

	var (
		rules   []ResolvedRule
		counter PriorityCounter
		used    = map[int]string{}
	)

	claim := func(priority int, name string) error {
		if existing, ok := used[priority]; ok {
			return &PriorityCollisionError{Priority: priority, Rule: name, Existing: existing}
		}
		used[priority] = name
		return nil
	}

	if in.RateLimit != nil {
		var priority int
		priority, counter = counter.Allocate(in.RateLimit.Priority)
		if err := claim(priority, RateLimitRuleName); err != nil {
			return nil, err
		}
		rules = append(rules, blockRule(RateLimitRuleName, priority, RateBasedStatement{
			Limit:     in.RateLimit.Limit,
			ScopeDown: in.RateLimit.ScopeDown,
		}))
	}

	if in.GeoBlock != nil {
		var priority int
		priority, counter = counter.Allocate(in.GeoBlock.Priority)
		if err := claim(priority, GeoBlockRuleName); err != nil {
			return nil, err
		}
		rules = append(rules, blockRule(GeoBlockRuleName, priority, GeoMatchStatement{
			CountryCodes: in.GeoBlock.CountryCodes,
		}))
	}

	for _, set := range in.IPSets {
		var priority int
		priority, counter = counter.Allocate(set.Priority)
		if err := claim(priority, set.Name); err != nil {
			return nil, err
		}
		rules = append(rules, ResolvedRule{
			Name:     set.Name,
			Priority: priority,
			Statement: IPSetReferenceStatement{
				IPSetName: set.Name,
				IPVersion: set.IPVersion,
			},
			Action:     actionRef(set.Action),
			Visibility: visibility(set.Name),
		})
	}

	if in.ManagedRules {
		expanded := ExpandCatalog(int(counter))
		for _, r := range expanded {
			if err := claim(r.Priority, r.Name); err != nil {
				return nil, err
			}
		}
		rules = append(rules, expanded...)
		counter = counter.Skip(len(expanded))
	}

	for _, group := range in.RuleGroups {
		vendor := group.Vendor
		if vendor == "" {
			vendor = ManagedRuleVendor
		}
		var priority int
		priority, counter = counter.Allocate(group.Priority)
		if err := claim(priority, group.Name); err != nil {
			return nil, err
		}
		rules = append(rules, ResolvedRule{
			Name:     group.Name,
			Priority: priority,
			Statement: ManagedRuleGroupStatement{
				VendorName:    vendor,
				Name:          group.Name,
				ExcludedRules: group.ExcludedRules,
			},
			Override:   overrideRef(OverrideNone),
			Visibility: visibility(group.Name),
		})
	}

	return &Policy{
		Name:          in.Name,
		Scope:         scope,
		DefaultAction: defaultAction,
		Rules:         rules,
	}, nil
}

func blockRule(name string, priority int, stmt Statement) ResolvedRule {
	return ResolvedRule{
		Name:       name,
		Priority:   priority,
		Statement:  stmt,
		Action:     actionRef(ActionBlock),
		Visibility: visibility(name),
	}
}

func visibility(ruleName string) VisibilityConfig {
	return VisibilityConfig{
		MetricName:     validation.MetricName(ruleName),
		Metrics:        true,
		SampleRequests: true,
	}
}
