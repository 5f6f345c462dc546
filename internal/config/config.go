// Package config handles the declarative policy document (HCL or JSON),
// its validation, and its mapping onto the compiler input.
package config

import "grimm.is/wafplan/internal/waf"

// Document is the top-level structure of a policy document.
type Document struct {
	// Name of the policy; becomes the firewall resource name.
	Name string `hcl:"name" json:"name"`

	// Region the policy deploys to. May be a literal region string or a
	// "${...}" placeholder resolved at deploy time.
	Region string `hcl:"region" json:"region"`

	// Scope pins the deployment scope explicitly: "edge" or "regional".
	// When empty the scope is derived from the region.
	Scope string `hcl:"scope,optional" json:"scope,omitempty"`

	// DefaultAction applies to requests no rule matches: "allow" (default)
	// or "block".
	DefaultAction string `hcl:"default_action,optional" json:"default_action,omitempty"`

	RateLimit    *RateLimit    `hcl:"rate_limit,block" json:"rate_limit,omitempty"`
	GeoBlock     *GeoBlock     `hcl:"geo_block,block" json:"geo_block,omitempty"`
	IPSets       []IPSet       `hcl:"ipset,block" json:"ipsets,omitempty"`
	ManagedRules *ManagedRules `hcl:"managed_rules,block" json:"managed_rules,omitempty"`
	RuleGroups   []RuleGroup   `hcl:"rule_group,block" json:"rule_groups,omitempty"`
}

// RateLimit declares a source-IP request rate limit over a five-minute window.
type RateLimit struct {
	Limit     int        `hcl:"limit" json:"limit"`
	Priority  *int       `hcl:"priority,optional" json:"priority,omitempty"`
	ScopeDown *ScopeDown `hcl:"scope_down,block" json:"scope_down,omitempty"`
}

// ScopeDown restricts which requests count toward a rate limit. Exactly one
// of the fields must be set.
type ScopeDown struct {
	// PathPrefix counts only requests whose URI path starts with the prefix.
	PathPrefix string `hcl:"path_prefix,optional" json:"path_prefix,omitempty"`

	// CountryCodes counts only requests originating from these countries.
	CountryCodes []string `hcl:"country_codes,optional" json:"country_codes,omitempty"`
}

// GeoBlock declares a country-code block list.
type GeoBlock struct {
	CountryCodes []string `hcl:"country_codes" json:"country_codes"`
	Priority     *int     `hcl:"priority,optional" json:"priority,omitempty"`
}

// IPSet declares an allow or block rule backed by a named address set. The
// set itself is materialized by the deployment collaborator.
type IPSet struct {
	Name      string   `hcl:"name,label" json:"name"`
	Action    string   `hcl:"action" json:"action"`
	Addresses []string `hcl:"addresses" json:"addresses"`
	IPVersion string   `hcl:"ip_version,optional" json:"ip_version,omitempty"`
	Priority  *int     `hcl:"priority,optional" json:"priority,omitempty"`
}

// ManagedRules toggles the vendor baseline catalog.
type ManagedRules struct {
	Enabled bool `hcl:"enabled" json:"enabled"`
}

// RuleGroup declares an additional vendor rule group beyond the baseline.
type RuleGroup struct {
	Name          string   `hcl:"name,label" json:"name"`
	Vendor        string   `hcl:"vendor,optional" json:"vendor,omitempty"`
	Priority      *int     `hcl:"priority,optional" json:"priority,omitempty"`
	ExcludedRules []string `hcl:"excluded_rules,optional" json:"excluded_rules,omitempty"`
}

// ToInput maps the document onto the compiler input. The document should be
// validated first; ToInput only fails on values Validate would also reject.
func (d *Document) ToInput() (waf.Input, error) {
	in := waf.Input{
		Name:   d.Name,
		Region: waf.ParseRegion(d.Region),
	}

	if d.Scope != "" {
		scope, err := waf.ParseScope(d.Scope)
		if err != nil {
			return waf.Input{}, err
		}
		in.Scope = &scope
	}

	if d.DefaultAction != "" {
		action, ok := waf.ParseRuleAction(d.DefaultAction)
		if !ok {
			return waf.Input{}, &ValidationError{Field: "default_action", Message: "unknown action " + d.DefaultAction}
		}
		in.DefaultAction = &action
	}

	if d.RateLimit != nil {
		decl := &waf.RateLimitDecl{
			Limit:    d.RateLimit.Limit,
			Priority: copyInt(d.RateLimit.Priority),
		}
		if sd := d.RateLimit.ScopeDown; sd != nil {
			switch {
			case sd.PathPrefix != "":
				decl.ScopeDown = waf.ByteMatchStatement{
					SearchString:         sd.PathPrefix,
					Field:                waf.FieldURIPath,
					PositionalConstraint: waf.PositionStartsWith,
				}
			case len(sd.CountryCodes) > 0:
				decl.ScopeDown = waf.GeoMatchStatement{CountryCodes: append([]string(nil), sd.CountryCodes...)}
			}
		}
		in.RateLimit = decl
	}

	if d.GeoBlock != nil {
		in.GeoBlock = &waf.GeoBlockDecl{
			CountryCodes: append([]string(nil), d.GeoBlock.CountryCodes...),
			Priority:     copyInt(d.GeoBlock.Priority),
		}
	}

	for _, set := range d.IPSets {
		version := waf.IPv4
		if set.IPVersion == "ipv6" {
			version = waf.IPv6
		}
		action, ok := waf.ParseRuleAction(set.Action)
		if !ok {
			return waf.Input{}, &ValidationError{Field: "ipset." + set.Name + ".action", Message: "unknown action " + set.Action}
		}
		in.IPSets = append(in.IPSets, waf.IPSetDecl{
			Name:      set.Name,
			Addresses: append([]string(nil), set.Addresses...),
			IPVersion: version,
			Priority:  copyInt(set.Priority),
			Action:    action,
		})
	}

	if d.ManagedRules != nil && d.ManagedRules.Enabled {
		in.ManagedRules = true
	}

	for _, group := range d.RuleGroups {
		in.RuleGroups = append(in.RuleGroups, waf.RuleGroupDecl{
			Name:          group.Name,
			Vendor:        group.Vendor,
			Priority:      copyInt(group.Priority),
			ExcludedRules: append([]string(nil), group.ExcludedRules...),
		})
	}

	return in, nil
}

// IPSetResources returns the address sets the deployment collaborator must
// materialize before the policy can reference them.
func (d *Document) IPSetResources() []waf.IPSetDecl {
	in, err := d.ToInput()
	if err != nil {
		return nil
	}
	return in.IPSets
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
