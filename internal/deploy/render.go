// Package deploy is the boundary to the deployment collaborator. It consumes
// a compiled policy verbatim; nothing here feeds back into compilation.
package deploy

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"

	"grimm.is/wafplan/internal/waf"
)

// RenderMap flattens a compiled policy into plain maps and slices, the shape
// both the JSON and YAML renderers and the dry-run API bodies share.
func RenderMap(p *waf.Policy) map[string]any {
	rules := make([]any, 0, len(p.Rules))
	for _, r := range p.Rules {
		rules = append(rules, renderRule(r))
	}
	return map[string]any{
		"name":           p.Name,
		"scope":          string(p.Scope),
		"default_action": string(p.DefaultAction),
		"rules":          rules,
	}
}

func renderRule(r waf.ResolvedRule) map[string]any {
	m := map[string]any{
		"name":      r.Name,
		"priority":  r.Priority,
		"statement": renderStatement(r.Statement),
		"visibility": map[string]any{
			"metric_name":     r.Visibility.MetricName,
			"metrics":         r.Visibility.Metrics,
			"sample_requests": r.Visibility.SampleRequests,
		},
	}
	if r.Action != nil {
		m["action"] = string(*r.Action)
	}
	if r.Override != nil {
		m["override_action"] = string(*r.Override)
	}
	return m
}

func renderStatement(s waf.Statement) map[string]any {
	switch stmt := s.(type) {
	case waf.RateBasedStatement:
		m := map[string]any{
			"type":           string(waf.KindRateBased),
			"limit":          stmt.Limit,
			"aggregate_key":  "IP",
			"window_seconds": waf.RateLimitWindowSeconds,
		}
		if stmt.ScopeDown != nil {
			m["scope_down"] = renderStatement(stmt.ScopeDown)
		}
		return m
	case waf.GeoMatchStatement:
		return map[string]any{
			"type":          string(waf.KindGeoMatch),
			"country_codes": stmt.CountryCodes,
		}
	case waf.IPSetReferenceStatement:
		return map[string]any{
			"type":       string(waf.KindIPSetReference),
			"ipset":      stmt.IPSetName,
			"ip_version": string(stmt.IPVersion),
		}
	case waf.ManagedRuleGroupStatement:
		m := map[string]any{
			"type":   string(waf.KindManagedRuleGroup),
			"vendor": stmt.VendorName,
			"name":   stmt.Name,
		}
		if len(stmt.ExcludedRules) > 0 {
			m["excluded_rules"] = stmt.ExcludedRules
		}
		return m
	case waf.ByteMatchStatement:
		return map[string]any{
			"type":                  string(waf.KindByteMatch),
			"search_string":         stmt.SearchString,
			"field":                 string(stmt.Field),
			"positional_constraint": string(stmt.PositionalConstraint),
		}
	default:
		// The statement union is sealed; reaching this is a bug.
		panic(fmt.Sprintf("unhandled statement kind %q", s.Kind()))
	}
}

// RenderJSON renders the compiled policy as indented JSON. Keys are emitted
// sorted, so output is deterministic and diff-friendly.
func RenderJSON(p *waf.Policy) ([]byte, error) {
	return json.MarshalIndent(RenderMap(p), "", "  ")
}

// RenderYAML renders the compiled policy as YAML.
func RenderYAML(p *waf.Policy) ([]byte, error) {
	return yaml.Marshal(RenderMap(p))
}
