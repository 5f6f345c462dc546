package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"grimm.is/wafplan/internal/waf"
)

func compiledFixture(t *testing.T) *waf.Policy {
	t.Helper()
	policy, err := waf.Compile(waf.Input{
		Name:   "fixture",
		Region: waf.ParseRegion("eu-west-1"),
		RateLimit: &waf.RateLimitDecl{
			Limit: 2000,
			ScopeDown: waf.ByteMatchStatement{
				SearchString:         "/api",
				Field:                waf.FieldURIPath,
				PositionalConstraint: waf.PositionStartsWith,
			},
		},
		GeoBlock: &waf.GeoBlockDecl{CountryCodes: []string{"CN", "RU"}},
		IPSets: []waf.IPSetDecl{{
			Name:      "Office",
			Addresses: []string{"203.0.113.0/24"},
			IPVersion: waf.IPv4,
			Action:    waf.ActionAllow,
		}},
		ManagedRules: true,
	})
	if err != nil {
		t.Fatalf("Compile fixture: %v", err)
	}
	return policy
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(compiledFixture(t))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["scope"] != "REGIONAL" {
		t.Errorf("scope = %v", decoded["scope"])
	}
	rules := decoded["rules"].([]any)
	if len(rules) != 10 {
		t.Fatalf("rendered %d rules, want 10", len(rules))
	}

	first := rules[0].(map[string]any)
	stmt := first["statement"].(map[string]any)
	if stmt["type"] != "rate_based" || stmt["window_seconds"] != float64(300) {
		t.Errorf("rate statement = %v", stmt)
	}
	if _, ok := stmt["scope_down"]; !ok {
		t.Error("scope_down missing from rendered rate statement")
	}
}

func TestRenderYAML(t *testing.T) {
	data, err := RenderYAML(compiledFixture(t))
	if err != nil {
		t.Fatalf("RenderYAML: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["name"] != "fixture" {
		t.Errorf("name = %v", decoded["name"])
	}
}

func TestRenderDeterministic(t *testing.T) {
	policy := compiledFixture(t)
	a, err := RenderJSON(policy)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderJSON(policy)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("rendering the same policy twice must be byte-identical")
	}
}

func TestDryRunDeploy(t *testing.T) {
	policy := compiledFixture(t)
	var out bytes.Buffer
	d := NewDryRun(&out, nil)

	result, err := d.Deploy(context.Background(), policy, []waf.IPSetDecl{{
		Name:      "Office",
		Addresses: []string{"203.0.113.0/24"},
		IPVersion: waf.IPv4,
	}})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	if result.ChangeToken == "" {
		t.Error("missing change token")
	}
	if len(result.Calls) != 2 {
		t.Fatalf("recorded %d calls, want 2", len(result.Calls))
	}
	if result.Calls[0].Method != "CreateIPSet" || result.Calls[0].Resource != "Office" {
		t.Errorf("first call = %+v", result.Calls[0])
	}
	if result.Calls[1].Method != "CreateWebACL" {
		t.Errorf("second call = %+v", result.Calls[1])
	}
	if !strings.Contains(out.String(), "CreateIPSet Office") {
		t.Errorf("summary missing: %q", out.String())
	}
}

func TestDryRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDryRun(nil, nil).Deploy(ctx, compiledFixture(t), nil)
	if err == nil {
		t.Fatal("cancelled context should fail")
	}
}
