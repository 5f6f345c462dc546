package config

import (
	"fmt"
	"strings"

	"grimm.is/wafplan/internal/validation"
	"grimm.is/wafplan/internal/waf"
)

// ValidationError represents one policy document validation error.
type ValidationError struct {
	Field    string
	Message  string
	Severity string // "error" (default), "warning"
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsWarning reports whether the error is advisory only.
func (e *ValidationError) IsWarning() bool {
	return e.Severity == "warning"
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if any entry is a hard error (not a warning).
func (e ValidationErrors) HasErrors() bool {
	for _, err := range e {
		if !err.IsWarning() {
			return true
		}
	}
	return false
}

// Warnings returns only the advisory entries.
func (e ValidationErrors) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, err := range e {
		if err.IsWarning() {
			out = append(out, err)
		}
	}
	return out
}

// Validate checks the whole document. It returns every problem found, not
// just the first, so a user can fix a document in one pass.
func (d *Document) Validate() ValidationErrors {
	var errs ValidationErrors

	fail := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: "warning"})
	}

	if err := validation.ValidateIdentifier(d.Name); err != nil {
		fail("name", "%v", err)
	}
	if d.Region == "" {
		fail("region", "region cannot be empty")
	}
	if d.Scope != "" {
		if _, err := waf.ParseScope(d.Scope); err != nil {
			fail("scope", "%v", err)
		}
	}
	if d.DefaultAction != "" {
		if _, ok := waf.ParseRuleAction(d.DefaultAction); !ok {
			fail("default_action", "unknown action %q", d.DefaultAction)
		}
	}

	errs = append(errs, d.validateRateLimit()...)
	errs = append(errs, d.validateGeoBlock()...)
	errs = append(errs, d.validateIPSets()...)
	errs = append(errs, d.validateRuleGroups()...)

	// Statically detectable scope/region mismatch; the compiler would also
	// catch it, but reporting it here keeps all config mistakes in one list.
	if d.Scope != "" {
		if scope, err := waf.ParseScope(d.Scope); err == nil {
			if _, err := waf.ResolveScope(&scope, waf.ParseRegion(d.Region)); err != nil {
				fail("scope", "%v", err)
			}
		}
	}

	if d.ManagedRules == nil && d.RateLimit == nil && d.GeoBlock == nil &&
		len(d.IPSets) == 0 && len(d.RuleGroups) == 0 {
		warn("", "document declares no rules; the compiled policy only applies its default action")
	}

	return errs
}

func (d *Document) validateRateLimit() ValidationErrors {
	if d.RateLimit == nil {
		return nil
	}
	var errs ValidationErrors

	if d.RateLimit.Limit < waf.RateLimitFloor {
		errs = append(errs, &ValidationError{
			Field:   "rate_limit.limit",
			Message: fmt.Sprintf("limit %d below the minimum of %d requests per %d seconds", d.RateLimit.Limit, waf.RateLimitFloor, waf.RateLimitWindowSeconds),
		})
	}
	if p := d.RateLimit.Priority; p != nil && *p < 0 {
		errs = append(errs, &ValidationError{Field: "rate_limit.priority", Message: "priority cannot be negative"})
	}
	if sd := d.RateLimit.ScopeDown; sd != nil {
		hasPath := sd.PathPrefix != ""
		hasGeo := len(sd.CountryCodes) > 0
		if hasPath == hasGeo {
			errs = append(errs, &ValidationError{
				Field:   "rate_limit.scope_down",
				Message: "exactly one of path_prefix or country_codes must be set",
			})
		}
		for _, code := range sd.CountryCodes {
			if err := validation.ValidateCountryCode(code); err != nil {
				errs = append(errs, &ValidationError{Field: "rate_limit.scope_down.country_codes", Message: err.Error()})
			}
		}
	}
	return errs
}

func (d *Document) validateGeoBlock() ValidationErrors {
	if d.GeoBlock == nil {
		return nil
	}
	var errs ValidationErrors

	if len(d.GeoBlock.CountryCodes) == 0 {
		errs = append(errs, &ValidationError{Field: "geo_block.country_codes", Message: "at least one country code is required"})
	}
	for _, code := range d.GeoBlock.CountryCodes {
		if err := validation.ValidateCountryCode(code); err != nil {
			errs = append(errs, &ValidationError{Field: "geo_block.country_codes", Message: err.Error()})
		}
	}
	if p := d.GeoBlock.Priority; p != nil && *p < 0 {
		errs = append(errs, &ValidationError{Field: "geo_block.priority", Message: "priority cannot be negative"})
	}
	return errs
}

func (d *Document) validateIPSets() ValidationErrors {
	var errs ValidationErrors
	seen := map[string]bool{}

	for _, set := range d.IPSets {
		field := "ipset." + set.Name

		if err := validation.ValidateIdentifier(set.Name); err != nil {
			errs = append(errs, &ValidationError{Field: field, Message: err.Error()})
		}
		if seen[set.Name] {
			errs = append(errs, &ValidationError{Field: field, Message: "duplicate ipset name"})
		}
		seen[set.Name] = true

		if _, ok := waf.ParseRuleAction(set.Action); !ok {
			errs = append(errs, &ValidationError{Field: field + ".action", Message: fmt.Sprintf("unknown action %q", set.Action)})
		}
		if len(set.Addresses) == 0 {
			errs = append(errs, &ValidationError{Field: field + ".addresses", Message: "at least one address is required"})
		}

		version := set.IPVersion
		switch version {
		case "", "ipv4", "ipv6":
		default:
			errs = append(errs, &ValidationError{Field: field + ".ip_version", Message: fmt.Sprintf("unknown ip_version %q", version)})
			version = ""
		}
		for _, addr := range set.Addresses {
			if err := validation.ValidateAddress(addr, version); err != nil {
				errs = append(errs, &ValidationError{Field: field + ".addresses", Message: err.Error()})
			}
		}
		if set.Priority != nil && *set.Priority < 0 {
			errs = append(errs, &ValidationError{Field: field + ".priority", Message: "priority cannot be negative"})
		}
	}
	return errs
}

func (d *Document) validateRuleGroups() ValidationErrors {
	var errs ValidationErrors
	seen := map[string]bool{}
	baseline := map[string]bool{}
	if d.ManagedRules != nil && d.ManagedRules.Enabled {
		for _, entry := range waf.Catalog() {
			baseline[entry.Name] = true
		}
	}

	for _, group := range d.RuleGroups {
		field := "rule_group." + group.Name

		if group.Name == "" {
			errs = append(errs, &ValidationError{Field: "rule_group", Message: "rule group name cannot be empty"})
			continue
		}
		if seen[group.Name] {
			errs = append(errs, &ValidationError{Field: field, Message: "duplicate rule group"})
		}
		seen[group.Name] = true

		if baseline[group.Name] {
			errs = append(errs, &ValidationError{
				Field:    field,
				Message:  "already included by managed_rules; the duplicate reference will be rejected by the deploy API",
				Severity: "warning",
			})
		}
		if group.Priority != nil && *group.Priority < 0 {
			errs = append(errs, &ValidationError{Field: field + ".priority", Message: "priority cannot be negative"})
		}
	}
	return errs
}
