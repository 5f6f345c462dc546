package cmd

import (
	"fmt"

	"grimm.is/wafplan/internal/config"
)

// RunInit writes a starter policy document.
func RunInit(path, name string, force bool) error {
	if err := config.WriteStarter(path, name, force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Edit the document, then run: check " + path)
	return nil
}
