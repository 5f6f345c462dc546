package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"grimm.is/wafplan/internal/brand"
	"grimm.is/wafplan/internal/config"
	"grimm.is/wafplan/internal/deploy"
	"grimm.is/wafplan/internal/waf"
)

// RunCheck validates the policy document syntax and semantics.
func RunCheck(configFile string, verbose bool) error {
	if configFile == "" {
		return fmt.Errorf("usage: %s check [-v] <policy-file>\nExample: %s check -v %s", brand.BinaryName, brand.BinaryName, brand.DefaultConfigPath())
	}

	doc, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("policy document invalid: %w", err)
	}

	verrs := doc.Validate()
	for _, w := range verrs.Warnings() {
		fmt.Printf("warning: %s\n", w)
	}
	if verrs.HasErrors() {
		for _, e := range verrs {
			if !e.IsWarning() {
				fmt.Printf("error: %s\n", e)
			}
		}
		return fmt.Errorf("policy document invalid")
	}

	in, err := doc.ToInput()
	if err != nil {
		return err
	}
	policy, err := waf.Compile(in)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	fmt.Println("Policy document valid!")
	printSummary(policy)

	if verbose {
		fmt.Println("\n[DRY RUN] Generated Operations:")
		dry := deploy.NewDryRun(os.Stdout, nil)
		if _, err := dry.Deploy(context.Background(), policy, in.IPSets); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(policy *waf.Policy) {
	fmt.Printf("Name: %s\n", policy.Name)
	fmt.Printf("Scope: %s\n", policy.Scope)
	fmt.Printf("Default action: %s\n", policy.DefaultAction)
	fmt.Printf("Rules: %d\n", len(policy.Rules))

	if len(policy.Rules) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nPRIORITY\tNAME\tKIND\tVERDICT")
	for _, r := range policy.Rules {
		verdict := ""
		if r.Action != nil {
			verdict = string(*r.Action)
		} else if r.Override != nil {
			verdict = "override=" + string(*r.Override)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Priority, r.Name, r.Statement.Kind(), verdict)
	}
	w.Flush()
}
