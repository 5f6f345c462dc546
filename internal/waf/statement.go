package waf

// StatementKind identifies the variant of a Statement.
type StatementKind string

const (
	KindRateBased        StatementKind = "rate_based"
	KindGeoMatch         StatementKind = "geo_match"
	KindIPSetReference   StatementKind = "ipset_reference"
	KindManagedRuleGroup StatementKind = "managed_rule_group"
	KindByteMatch        StatementKind = "byte_match"
)

// Statement is the match condition of a rule. It is a closed set of
// variants; the unexported marker keeps the union sealed so a switch over
// Kind() is exhaustive.
type Statement interface {
	Kind() StatementKind
	isStatement()
}

// RateLimitWindowSeconds is the fixed evaluation window for rate-based
// rules. The deploy API supports no other value.
const RateLimitWindowSeconds = 300

// RateLimitFloor is the smallest request count the deploy API accepts for a
// rate-based rule.
const RateLimitFloor = 10

// RateBasedStatement matches sources that exceed Limit requests per
// RateLimitWindowSeconds, aggregated by source IP. ScopeDown optionally
// restricts which requests count toward the limit.
type RateBasedStatement struct {
	Limit     int
	ScopeDown Statement
}

func (RateBasedStatement) Kind() StatementKind { return KindRateBased }
func (RateBasedStatement) isStatement()        {}

// GeoMatchStatement matches requests originating from any of the given
// ISO 3166-1 alpha-2 country codes.
type GeoMatchStatement struct {
	CountryCodes []string
}

func (GeoMatchStatement) Kind() StatementKind { return KindGeoMatch }
func (GeoMatchStatement) isStatement()        {}

// IPVersion selects the address family of an IP set.
type IPVersion string

const (
	IPv4 IPVersion = "IPV4"
	IPv6 IPVersion = "IPV6"
)

// IPSetReferenceStatement matches requests whose source address is in an
// externally materialized IP set. The compiler only records the reference;
// the deployment collaborator creates the set and binds the real resource id.
type IPSetReferenceStatement struct {
	IPSetName string
	IPVersion IPVersion
}

func (IPSetReferenceStatement) Kind() StatementKind { return KindIPSetReference }
func (IPSetReferenceStatement) isStatement()        {}

// ManagedRuleGroupStatement delegates matching to a vendor-curated rule
// group, optionally excluding individual sub-rules by name.
type ManagedRuleGroupStatement struct {
	VendorName    string
	Name          string
	ExcludedRules []string
}

func (ManagedRuleGroupStatement) Kind() StatementKind { return KindManagedRuleGroup }
func (ManagedRuleGroupStatement) isStatement()        {}

// MatchField selects the request component a ByteMatchStatement inspects.
type MatchField string

const (
	FieldURIPath MatchField = "URI_PATH"
	FieldHeader  MatchField = "HEADER"
)

// PositionalConstraint describes where the search string must appear.
type PositionalConstraint string

const (
	PositionStartsWith PositionalConstraint = "STARTS_WITH"
	PositionContains   PositionalConstraint = "CONTAINS"
	PositionExactly    PositionalConstraint = "EXACTLY"
)

// ByteMatchStatement matches a literal string against a request field. Only
// used as a rate-limit scope-down predicate; it is not a rule category of
// its own.
type ByteMatchStatement struct {
	SearchString         string
	Field                MatchField
	PositionalConstraint PositionalConstraint
}

func (ByteMatchStatement) Kind() StatementKind { return KindByteMatch }
func (ByteMatchStatement) isStatement()        {}
