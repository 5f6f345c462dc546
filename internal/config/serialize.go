package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// MarshalHCL renders a document as formatted HCL.
func MarshalHCL(doc *Document) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("name", cty.StringVal(doc.Name))
	body.SetAttributeValue("region", cty.StringVal(doc.Region))
	if doc.Scope != "" {
		body.SetAttributeValue("scope", cty.StringVal(doc.Scope))
	}
	if doc.DefaultAction != "" {
		body.SetAttributeValue("default_action", cty.StringVal(doc.DefaultAction))
	}

	if rl := doc.RateLimit; rl != nil {
		body.AppendNewline()
		block := body.AppendNewBlock("rate_limit", nil).Body()
		block.SetAttributeValue("limit", cty.NumberIntVal(int64(rl.Limit)))
		if rl.Priority != nil {
			block.SetAttributeValue("priority", cty.NumberIntVal(int64(*rl.Priority)))
		}
		if sd := rl.ScopeDown; sd != nil {
			sdBlock := block.AppendNewBlock("scope_down", nil).Body()
			if sd.PathPrefix != "" {
				sdBlock.SetAttributeValue("path_prefix", cty.StringVal(sd.PathPrefix))
			}
			if len(sd.CountryCodes) > 0 {
				sdBlock.SetAttributeValue("country_codes", stringList(sd.CountryCodes))
			}
		}
	}

	if gb := doc.GeoBlock; gb != nil {
		body.AppendNewline()
		block := body.AppendNewBlock("geo_block", nil).Body()
		block.SetAttributeValue("country_codes", stringList(gb.CountryCodes))
		if gb.Priority != nil {
			block.SetAttributeValue("priority", cty.NumberIntVal(int64(*gb.Priority)))
		}
	}

	for _, set := range doc.IPSets {
		body.AppendNewline()
		block := body.AppendNewBlock("ipset", []string{set.Name}).Body()
		block.SetAttributeValue("action", cty.StringVal(set.Action))
		block.SetAttributeValue("addresses", stringList(set.Addresses))
		if set.IPVersion != "" {
			block.SetAttributeValue("ip_version", cty.StringVal(set.IPVersion))
		}
		if set.Priority != nil {
			block.SetAttributeValue("priority", cty.NumberIntVal(int64(*set.Priority)))
		}
	}

	if mr := doc.ManagedRules; mr != nil {
		body.AppendNewline()
		block := body.AppendNewBlock("managed_rules", nil).Body()
		block.SetAttributeValue("enabled", cty.BoolVal(mr.Enabled))
	}

	for _, group := range doc.RuleGroups {
		body.AppendNewline()
		block := body.AppendNewBlock("rule_group", []string{group.Name}).Body()
		if group.Vendor != "" {
			block.SetAttributeValue("vendor", cty.StringVal(group.Vendor))
		}
		if group.Priority != nil {
			block.SetAttributeValue("priority", cty.NumberIntVal(int64(*group.Priority)))
		}
		if len(group.ExcludedRules) > 0 {
			block.SetAttributeValue("excluded_rules", stringList(group.ExcludedRules))
		}
	}

	return f.Bytes()
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, 0, len(values))
	for _, v := range values {
		vals = append(vals, cty.StringVal(v))
	}
	return cty.ListVal(vals)
}

// Starter returns the document written by `init`: a regional policy with the
// baseline catalog enabled and a commented-out feel of the common options.
func Starter(name string) *Document {
	return &Document{
		Name:          name,
		Region:        "eu-west-1",
		DefaultAction: "allow",
		RateLimit:     &RateLimit{Limit: 2000},
		GeoBlock:      &GeoBlock{CountryCodes: []string{"KP"}},
		ManagedRules:  &ManagedRules{Enabled: true},
	}
}

// WriteStarter writes the starter document to path. It refuses to overwrite
// an existing file unless force is set.
func WriteStarter(path, name string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}
	return os.WriteFile(path, MarshalHCL(Starter(name)), 0644)
}
