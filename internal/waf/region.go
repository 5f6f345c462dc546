package waf

import "strings"

// EdgeRegion is the control-plane region for edge-wide policies. Policies
// with edge scope must be created there; the deploy API rejects anything else.
const EdgeRegion = "us-east-1"

// RegionKind distinguishes region strings we can reason about statically
// from deploy-time placeholders.
type RegionKind int

const (
	// RegionLiteral is a concrete region string like "eu-west-1".
	RegionLiteral RegionKind = iota

	// RegionDeferred is a templated token (e.g. "${AWS::Region}") whose
	// value is unknown until deploy time. It cannot be statically checked
	// against EdgeRegion, in either direction.
	RegionDeferred
)

// Region is the target deployment region of a policy.
type Region struct {
	Kind  RegionKind
	Value string
}

// ParseRegion classifies a region string. Any "${...}" placeholder makes the
// whole string deferred; everything else is taken literally.
func ParseRegion(s string) Region {
	if i := strings.Index(s, "${"); i >= 0 && strings.Contains(s[i:], "}") {
		return Region{Kind: RegionDeferred, Value: s}
	}
	return Region{Kind: RegionLiteral, Value: s}
}

// IsDeferred reports whether the region is a deploy-time placeholder.
func (r Region) IsDeferred() bool {
	return r.Kind == RegionDeferred
}

// IsEdge reports whether the region is literally the edge control-plane
// region. A deferred region is never considered edge, even if it might
// resolve to it at deploy time.
func (r Region) IsEdge() bool {
	return r.Kind == RegionLiteral && r.Value == EdgeRegion
}

func (r Region) String() string {
	return r.Value
}
