package guardrails

import "fmt"

// RuleConfigurationError reports a rule whose pattern the engine cannot compile.
// It is an authoring bug in the rule set, not a property of the validated text.
type RuleConfigurationError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *RuleConfigurationError) Error() string {
	return fmt.Sprintf("guardrails: rule %q has invalid pattern %q: %v", e.RuleID, e.Pattern, e.Err)
}

func (e *RuleConfigurationError) Unwrap() error { return e.Err }
