package waf

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() Input {
	return Input{
		Name:   "test-acl",
		Region: ParseRegion("eu-west-1"),
	}
}

// Scenario: rate limit @1, geo block @2, managed rules expand at 3..9.
func TestCompileRateGeoManaged(t *testing.T) {
	in := baseInput()
	in.RateLimit = &RateLimitDecl{Limit: 2000, Priority: intPtr(1)}
	in.GeoBlock = &GeoBlockDecl{CountryCodes: []string{"CN", "RU"}, Priority: intPtr(2)}
	in.ManagedRules = true

	policy, err := Compile(in)
	require.NoError(t, err)
	require.Len(t, policy.Rules, 9)

	assert.Equal(t, RateLimitRuleName, policy.Rules[0].Name)
	assert.Equal(t, 1, policy.Rules[0].Priority)
	rate, ok := policy.Rules[0].Statement.(RateBasedStatement)
	require.True(t, ok)
	assert.Equal(t, 2000, rate.Limit)
	require.NotNil(t, policy.Rules[0].Action)
	assert.Equal(t, ActionBlock, *policy.Rules[0].Action)

	assert.Equal(t, GeoBlockRuleName, policy.Rules[1].Name)
	assert.Equal(t, 2, policy.Rules[1].Priority)
	geo, ok := policy.Rules[1].Statement.(GeoMatchStatement)
	require.True(t, ok)
	assert.Equal(t, []string{"CN", "RU"}, geo.CountryCodes)

	catalog := Catalog()
	for i, r := range policy.Rules[2:] {
		assert.Equal(t, catalog[i].Name, r.Name)
		assert.Equal(t, 3+i, r.Priority)
	}
}

// Scenario: no declarations at all.
func TestCompileEmpty(t *testing.T) {
	policy, err := Compile(baseInput())
	require.NoError(t, err)

	assert.Empty(t, policy.Rules)
	assert.Equal(t, ActionAllow, policy.DefaultAction)
	assert.Equal(t, ScopeRegional, policy.Scope)
}

// Scenario: explicit IP set at 0, managed rules follow at 1..7.
func TestCompileIPSetThenManaged(t *testing.T) {
	in := baseInput()
	in.IPSets = []IPSetDecl{{
		Name:      "Office",
		Addresses: []string{"203.0.113.0/24"},
		IPVersion: IPv4,
		Priority:  intPtr(0),
		Action:    ActionAllow,
	}}
	in.ManagedRules = true

	policy, err := Compile(in)
	require.NoError(t, err)
	require.Len(t, policy.Rules, 8)

	office := policy.Rules[0]
	assert.Equal(t, "Office", office.Name)
	assert.Equal(t, 0, office.Priority)
	require.NotNil(t, office.Action)
	assert.Equal(t, ActionAllow, *office.Action)
	ref, ok := office.Statement.(IPSetReferenceStatement)
	require.True(t, ok)
	assert.Equal(t, "Office", ref.IPSetName)
	assert.Equal(t, IPv4, ref.IPVersion)

	for i, r := range policy.Rules[1:] {
		assert.Equal(t, 1+i, r.Priority)
	}
}

func TestCompileRuleCount(t *testing.T) {
	in := baseInput()
	in.RateLimit = &RateLimitDecl{Limit: 500}
	in.GeoBlock = &GeoBlockDecl{CountryCodes: []string{"KP"}}
	in.IPSets = []IPSetDecl{
		{Name: "a", IPVersion: IPv4, Action: ActionBlock},
		{Name: "b", IPVersion: IPv6, Action: ActionBlock},
	}
	in.ManagedRules = true
	in.RuleGroups = []RuleGroupDecl{
		{Name: "AWSManagedRulesBotControlRuleSet"},
	}

	policy, err := Compile(in)
	require.NoError(t, err)

	// 1 + 1 + 2 + 7 + 1
	assert.Len(t, policy.Rules, 12)
}

func TestCompilePrioritiesDistinctAndDeterministic(t *testing.T) {
	in := baseInput()
	in.RateLimit = &RateLimitDecl{Limit: 100, Priority: intPtr(20)}
	in.GeoBlock = &GeoBlockDecl{CountryCodes: []string{"CN"}}
	in.IPSets = []IPSetDecl{
		{Name: "first", IPVersion: IPv4, Action: ActionBlock, Priority: intPtr(3)},
		{Name: "second", IPVersion: IPv4, Action: ActionBlock},
	}
	in.ManagedRules = true
	in.RuleGroups = []RuleGroupDecl{{Name: "extra", Vendor: "Acme"}}

	first, err := Compile(in)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, r := range first.Rules {
		if seen[r.Priority] {
			t.Fatalf("priority %d reused", r.Priority)
		}
		seen[r.Priority] = true
	}

	second, err := Compile(in)
	require.NoError(t, err)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input must compile to identical output")
	}
}

// An explicit priority in an earlier category pushes all later auto-assigned
// priorities above it.
func TestCompileExplicitRaisesLaterAuto(t *testing.T) {
	in := baseInput()
	in.RateLimit = &RateLimitDecl{Limit: 100, Priority: intPtr(50)}
	in.GeoBlock = &GeoBlockDecl{CountryCodes: []string{"CN"}}

	policy, err := Compile(in)
	require.NoError(t, err)
	require.Len(t, policy.Rules, 2)
	assert.Equal(t, 50, policy.Rules[0].Priority)
	assert.Equal(t, 51, policy.Rules[1].Priority)
}

func TestCompileDuplicateExplicitPriority(t *testing.T) {
	in := baseInput()
	in.RateLimit = &RateLimitDecl{Limit: 100, Priority: intPtr(5)}
	in.GeoBlock = &GeoBlockDecl{CountryCodes: []string{"CN"}, Priority: intPtr(5)}

	_, err := Compile(in)
	var collision *PriorityCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, 5, collision.Priority)
	assert.Equal(t, RateLimitRuleName, collision.Existing)
	assert.Equal(t, GeoBlockRuleName, collision.Rule)
}

// An explicit priority landing inside the catalog expansion is also a
// collision, not just explicit-vs-explicit.
func TestCompileExplicitCollidesWithCatalog(t *testing.T) {
	in := baseInput()
	in.ManagedRules = true // occupies 0..6
	in.RuleGroups = []RuleGroupDecl{{Name: "late", Priority: intPtr(4)}}

	_, err := Compile(in)
	var collision *PriorityCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, 4, collision.Priority)
}

func TestCompileScopeError(t *testing.T) {
	in := baseInput()
	in.Scope = scopePtr(ScopeEdge)
	in.ManagedRules = true

	policy, err := Compile(in)
	var scopeErr *ScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Nil(t, policy, "no partial rule list on error")
}

func TestCompileScopeDownPredicate(t *testing.T) {
	in := baseInput()
	in.RateLimit = &RateLimitDecl{
		Limit: 1000,
		ScopeDown: ByteMatchStatement{
			SearchString:         "/api",
			Field:                FieldURIPath,
			PositionalConstraint: PositionStartsWith,
		},
	}

	policy, err := Compile(in)
	require.NoError(t, err)
	rate := policy.Rules[0].Statement.(RateBasedStatement)
	require.NotNil(t, rate.ScopeDown)
	assert.Equal(t, KindByteMatch, rate.ScopeDown.Kind())
}

func TestCompileRuleGroupDefaults(t *testing.T) {
	in := baseInput()
	in.RuleGroups = []RuleGroupDecl{{
		Name:          "AWSManagedRulesBotControlRuleSet",
		ExcludedRules: []string{"CategoryHttpLibrary"},
	}}

	policy, err := Compile(in)
	require.NoError(t, err)
	require.Len(t, policy.Rules, 1)

	r := policy.Rules[0]
	assert.Nil(t, r.Action)
	require.NotNil(t, r.Override)
	assert.Equal(t, OverrideNone, *r.Override)

	stmt := r.Statement.(ManagedRuleGroupStatement)
	assert.Equal(t, ManagedRuleVendor, stmt.VendorName)
	assert.Equal(t, []string{"CategoryHttpLibrary"}, stmt.ExcludedRules)
}

func TestCompileRequiresName(t *testing.T) {
	in := baseInput()
	in.Name = ""
	_, err := Compile(in)
	if err == nil {
		t.Fatal("empty policy name must fail")
	}
}

func TestCompileMetricNameSanitized(t *testing.T) {
	in := baseInput()
	in.IPSets = []IPSetDecl{{Name: "office-vpn", IPVersion: IPv4, Action: ActionAllow}}

	policy, err := Compile(in)
	require.NoError(t, err)
	assert.Equal(t, "officevpn", policy.Rules[0].Visibility.MetricName)
}
