package waf

// ManagedRuleVendor is the vendor of the baseline catalog entries and the
// default vendor for custom rule-group declarations.
const ManagedRuleVendor = "AWS"

// CatalogEntry is one vendor-curated rule group in the baseline catalog.
type CatalogEntry struct {
	Name        string
	Description string
}

// managedRuleCatalog is the fixed baseline enabled by managed_rules. Order
// matters: it is the evaluation order of the expanded rules.
var managedRuleCatalog = []CatalogEntry{
	{"AWSManagedRulesCommonRuleSet", "Protection against common exploits such as XSS and request smuggling"},
	{"AWSManagedRulesKnownBadInputsRuleSet", "Blocks request patterns known to be invalid or malicious"},
	{"AWSManagedRulesAmazonIpReputationList", "Blocks sources with poor IP reputation"},
	{"AWSManagedRulesAnonymousIpList", "Blocks anonymizing proxies, VPNs and Tor exit nodes"},
	{"AWSManagedRulesSQLiRuleSet", "Blocks SQL injection patterns"},
	{"AWSManagedRulesLinuxRuleSet", "Blocks Linux-specific exploit patterns such as LFI"},
	{"AWSManagedRulesWindowsRuleSet", "Blocks Windows-specific exploit patterns such as PowerShell injection"},
}

// Catalog returns a copy of the baseline managed rule-group catalog.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(managedRuleCatalog))
	copy(out, managedRuleCatalog)
	return out
}

// CatalogSize is the number of rules a managed_rules expansion emits.
func CatalogSize() int {
	return len(managedRuleCatalog)
}

// ExpandCatalog expands the baseline catalog into resolved rules with
// consecutive priorities starting at start. Priorities are sequential by
// construction, so no allocator is involved; the compiler advances its
// watermark past the last one afterwards.
func ExpandCatalog(start int) []ResolvedRule {
	rules := make([]ResolvedRule, 0, len(managedRuleCatalog))
	for i, entry := range managedRuleCatalog {
		rules = append(rules, ResolvedRule{
			Name:     entry.Name,
			Priority: start + i,
			Statement: ManagedRuleGroupStatement{
				VendorName: ManagedRuleVendor,
				Name:       entry.Name,
			},
			Override: overrideRef(OverrideNone),
			Visibility: VisibilityConfig{
				MetricName:     entry.Name,
				Metrics:        true,
				SampleRequests: true,
			},
		})
	}
	return rules
}
