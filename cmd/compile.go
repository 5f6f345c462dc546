package cmd

import (
	"fmt"
	"os"

	"grimm.is/wafplan/internal/config"
	"grimm.is/wafplan/internal/deploy"
	"grimm.is/wafplan/internal/waf"
)

// RunCompile compiles a policy document and writes the resolved rule list.
func RunCompile(configFile, format, outPath string) error {
	policy, err := compileFile(configFile)
	if err != nil {
		return err
	}

	var rendered []byte
	switch format {
	case "json", "":
		rendered, err = deploy.RenderJSON(policy)
	case "yaml":
		rendered, err = deploy.RenderYAML(policy)
	default:
		return fmt.Errorf("unknown output format %q (expected json or yaml)", format)
	}
	if err != nil {
		return err
	}

	if outPath == "" || outPath == "-" {
		_, err = os.Stdout.Write(append(rendered, '\n'))
		return err
	}
	return os.WriteFile(outPath, rendered, 0644)
}

// compileFile is the shared load -> validate -> compile pipeline.
func compileFile(configFile string) (*waf.Policy, error) {
	doc, err := config.LoadFile(configFile)
	if err != nil {
		return nil, err
	}
	if verrs := doc.Validate(); verrs.HasErrors() {
		return nil, verrs
	}
	in, err := doc.ToInput()
	if err != nil {
		return nil, err
	}
	return waf.Compile(in)
}
