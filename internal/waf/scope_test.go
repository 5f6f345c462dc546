package waf

import (
	"errors"
	"testing"
)

func scopePtr(s Scope) *Scope { return &s }

func TestResolveScopeDerived(t *testing.T) {
	cases := []struct {
		region string
		want   Scope
	}{
		{"us-east-1", ScopeEdge},
		{"eu-west-1", ScopeRegional},
		{"ap-southeast-2", ScopeRegional},
		{"us-east-2", ScopeRegional},
		// Deferred regions default conservatively to regional.
		{"${AWS::Region}", ScopeRegional},
		{"prefix-${region}-suffix", ScopeRegional},
	}
	for _, c := range cases {
		got, err := ResolveScope(nil, ParseRegion(c.region))
		if err != nil {
			t.Errorf("ResolveScope(nil, %q) error: %v", c.region, err)
			continue
		}
		if got != c.want {
			t.Errorf("ResolveScope(nil, %q) = %s, want %s", c.region, got, c.want)
		}
	}
}

func TestResolveScopeExplicitEdge(t *testing.T) {
	if got, err := ResolveScope(scopePtr(ScopeEdge), ParseRegion("us-east-1")); err != nil || got != ScopeEdge {
		t.Errorf("edge scope in edge region: got %s, err %v", got, err)
	}

	// Deferred regions cannot be statically falsified.
	if got, err := ResolveScope(scopePtr(ScopeEdge), ParseRegion("${AWS::Region}")); err != nil || got != ScopeEdge {
		t.Errorf("edge scope with deferred region: got %s, err %v", got, err)
	}

	_, err := ResolveScope(scopePtr(ScopeEdge), ParseRegion("eu-west-1"))
	var scopeErr *ScopeError
	if !errors.As(err, &scopeErr) {
		t.Fatalf("edge scope in eu-west-1: want *ScopeError, got %v", err)
	}
	if scopeErr.Region.Value != "eu-west-1" {
		t.Errorf("ScopeError region = %q", scopeErr.Region.Value)
	}
}

func TestResolveScopeExplicitRegional(t *testing.T) {
	for _, region := range []string{"us-east-1", "eu-west-1", "${AWS::Region}"} {
		got, err := ResolveScope(scopePtr(ScopeRegional), ParseRegion(region))
		if err != nil || got != ScopeRegional {
			t.Errorf("regional scope with region %q: got %s, err %v", region, got, err)
		}
	}
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]Scope{
		"edge": ScopeEdge, "EDGE": ScopeEdge,
		"regional": ScopeRegional, "REGIONAL": ScopeRegional,
	} {
		got, err := ParseScope(in)
		if err != nil || got != want {
			t.Errorf("ParseScope(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseScope("global"); err == nil {
		t.Error("ParseScope(\"global\") should fail")
	}
}
