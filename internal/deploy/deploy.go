package deploy

import (
	"context"
	"encoding/json"

	"grimm.is/wafplan/internal/waf"
)

// Call is one deploy-API operation a deployer performed (or, for the dry
// run, would have performed).
type Call struct {
	Method   string          `json:"method"`
	Resource string          `json:"resource"`
	Body     json.RawMessage `json:"body,omitempty"`
}

// Result is the outcome of one deployment.
type Result struct {
	ChangeToken string `json:"change_token"`
	Calls       []Call `json:"calls"`
}

// Deployer materializes a compiled policy and its referenced IP sets. The
// compiled policy is read-only; failure and retry handling live entirely
// behind this interface.
type Deployer interface {
	Deploy(ctx context.Context, policy *waf.Policy, sets []waf.IPSetDecl) (*Result, error)
}
