package waf

import "fmt"

// Scope is the deployment context a policy may attach to.
type Scope string

const (
	// ScopeEdge policies attach to edge-network distributions and can only
	// be created in EdgeRegion.
	ScopeEdge Scope = "EDGE"

	// ScopeRegional policies attach to resources inside a single region.
	ScopeRegional Scope = "REGIONAL"
)

// ParseScope parses a user-supplied scope string.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "edge", "EDGE":
		return ScopeEdge, nil
	case "regional", "REGIONAL":
		return ScopeRegional, nil
	default:
		return "", fmt.Errorf("unknown scope %q (expected \"edge\" or \"regional\")", s)
	}
}

// ResolveScope derives and validates the deployment scope for a region.
//
// With an explicit edge scope the region must be the edge control-plane
// region; a deferred region passes because it cannot be statically
// falsified. An explicit regional scope is always valid. Without an
// explicit scope the literal edge region selects edge scope and everything
// else, deferred regions included, conservatively selects regional.
//
// ResolveScope is side-effect free and usable standalone for pre-validation.
func ResolveScope(explicit *Scope, region Region) (Scope, error) {
	if explicit != nil {
		switch *explicit {
		case ScopeEdge:
			if region.IsEdge() || region.IsDeferred() {
				return ScopeEdge, nil
			}
			return "", &ScopeError{Scope: ScopeEdge, Region: region}
		case ScopeRegional:
			return ScopeRegional, nil
		default:
			return "", fmt.Errorf("unknown scope %q", *explicit)
		}
	}

	if region.IsEdge() {
		return ScopeEdge, nil
	}
	return ScopeRegional, nil
}
