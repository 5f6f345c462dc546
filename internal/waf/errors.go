package waf

import "fmt"

// ScopeError reports an explicitly requested scope that is inconsistent with
// the target region. It is detected before any external call; compilation
// aborts with no partial rule list.
type ScopeError struct {
	Scope  Scope
	Region Region
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("scope %s requires region %s, got %q", e.Scope, EdgeRegion, e.Region.Value)
}

// PriorityCollisionError reports two declarations that supplied the same
// explicit priority. Priorities are the evaluation order of the policy, so
// a duplicate is always a configuration mistake.
type PriorityCollisionError struct {
	Priority int
	Rule     string
	Existing string
}

func (e *PriorityCollisionError) Error() string {
	return fmt.Sprintf("priority %d assigned to both %q and %q", e.Priority, e.Existing, e.Rule)
}
