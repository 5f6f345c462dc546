package cmd

import (
	"fmt"

	"grimm.is/wafplan/internal/brand"
)

// RunVersion prints build information.
func RunVersion() {
	fmt.Printf("%s %s\n", brand.BinaryName, brand.Version)
	if brand.GitCommit != "unknown" {
		fmt.Printf("commit: %s\n", brand.GitCommit)
	}
	if brand.BuildTime != "unknown" {
		fmt.Printf("built: %s\n", brand.BuildTime)
	}
}
