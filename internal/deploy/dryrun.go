package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"grimm.is/wafplan/internal/logging"
	"grimm.is/wafplan/internal/waf"
)

// DryRun is a Deployer that records the API calls a real deployment would
// make without performing any of them. Used by `check -v` and in tests.
type DryRun struct {
	// Out, when set, receives a human-readable summary of each call.
	Out io.Writer

	logger *logging.Logger
}

// NewDryRun returns a dry-run deployer writing its summary to out (may be nil).
func NewDryRun(out io.Writer, logger *logging.Logger) *DryRun {
	if logger == nil {
		logger = logging.Default()
	}
	return &DryRun{Out: out, logger: logger.WithComponent("deploy")}
}

// Deploy records the IP-set and policy creation calls in the order a real
// deployer issues them: referenced sets first, then the policy.
func (d *DryRun) Deploy(ctx context.Context, policy *waf.Policy, sets []waf.IPSetDecl) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{ChangeToken: uuid.NewString()}

	for _, set := range sets {
		body, err := json.Marshal(map[string]any{
			"name":       set.Name,
			"ip_version": string(set.IPVersion),
			"addresses":  set.Addresses,
		})
		if err != nil {
			return nil, fmt.Errorf("encode ipset %s: %w", set.Name, err)
		}
		result.Calls = append(result.Calls, Call{
			Method:   "CreateIPSet",
			Resource: set.Name,
			Body:     body,
		})
	}

	body, err := json.Marshal(RenderMap(policy))
	if err != nil {
		return nil, fmt.Errorf("encode policy %s: %w", policy.Name, err)
	}
	result.Calls = append(result.Calls, Call{
		Method:   "CreateWebACL",
		Resource: policy.Name,
		Body:     body,
	})

	if d.Out != nil {
		for _, call := range result.Calls {
			fmt.Fprintf(d.Out, "[dry-run] %s %s\n", call.Method, call.Resource)
		}
		fmt.Fprintf(d.Out, "[dry-run] change token %s\n", result.ChangeToken)
	}
	d.logger.Info("dry-run deployment recorded",
		"policy", policy.Name,
		"scope", string(policy.Scope),
		"calls", len(result.Calls))

	return result, nil
}
