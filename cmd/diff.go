package cmd

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/wafplan/internal/deploy"
)

// RunDiff compiles two policy documents and prints a unified diff of the
// resolved rule lists. Comparing compiled output, not source text, means a
// reordered document that compiles identically shows no difference.
func RunDiff(pathA, pathB string) error {
	policyA, err := compileFile(pathA)
	if err != nil {
		return fmt.Errorf("%s: %w", pathA, err)
	}
	policyB, err := compileFile(pathB)
	if err != nil {
		return fmt.Errorf("%s: %w", pathB, err)
	}

	renderedA, err := deploy.RenderJSON(policyA)
	if err != nil {
		return err
	}
	renderedB, err := deploy.RenderJSON(policyB)
	if err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(renderedA)),
		B:        difflib.SplitLines(string(renderedB)),
		FromFile: pathA,
		ToFile:   pathB,
		Context:  3,
	})
	if err != nil {
		return err
	}

	if diff == "" {
		fmt.Println("Compiled policies are identical.")
		return nil
	}
	fmt.Print(diff)
	return nil
}
