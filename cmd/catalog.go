package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"grimm.is/wafplan/internal/waf"
)

// RunCatalog prints the baseline managed rule-group catalog in its
// evaluation order.
func RunCatalog() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tRULE GROUP\tDESCRIPTION")
	for i, entry := range waf.Catalog() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, entry.Name, entry.Description)
	}
	return w.Flush()
}
