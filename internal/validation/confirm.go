package validation

// ConfirmDecision is the single confirm/block answer the wizard's final step
// consumes, with every blocker and warning accumulated.
type ConfirmDecision struct {
	CanConfirm bool
	Blockers   []string
	Warnings   []string
}

// Confirm composes the readiness gate, the consistency validator, and the
// input-shape pass into one decision. Any business-rule violation, data
// inconsistency, or hard input error blocks; warnings never do.
func Confirm(readiness Readiness, consistency ConsistencyResult, input InputResult) ConfirmDecision {
	var decision ConfirmDecision

	for _, req := range readiness.MissingRequirements {
		decision.Blockers = append(decision.Blockers, string(req))
	}
	for _, issue := range consistency.DataInconsistencies {
		decision.Blockers = append(decision.Blockers, issue.Message)
	}
	for _, issue := range consistency.BusinessRuleViolations {
		decision.Blockers = append(decision.Blockers, issue.Message)
	}
	for _, fieldErr := range input.Errors {
		if fieldErr.Severity == SeverityError {
			decision.Blockers = append(decision.Blockers, fieldErr.Field+": "+fieldErr.Message)
		} else {
			decision.Warnings = append(decision.Warnings, fieldErr.Field+": "+fieldErr.Message)
		}
	}

	decision.CanConfirm = readiness.IsReady && consistency.IsConsistent && input.IsValid
	return decision
}
