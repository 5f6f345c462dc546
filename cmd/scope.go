package cmd

import (
	"fmt"

	"grimm.is/wafplan/internal/waf"
)

// RunScope resolves the deployment scope for a region without compiling
// anything, for pre-validating pipeline parameters.
func RunScope(region, explicit string) error {
	if region == "" {
		return fmt.Errorf("a region is required (e.g. -region eu-west-1)")
	}

	var explicitScope *waf.Scope
	if explicit != "" {
		scope, err := waf.ParseScope(explicit)
		if err != nil {
			return err
		}
		explicitScope = &scope
	}

	parsed := waf.ParseRegion(region)
	scope, err := waf.ResolveScope(explicitScope, parsed)
	if err != nil {
		return err
	}

	kind := "literal"
	if parsed.IsDeferred() {
		kind = "deferred until deploy time"
	}
	fmt.Printf("Region: %s (%s)\n", parsed, kind)
	fmt.Printf("Scope: %s\n", scope)
	return nil
}
