// Package integrity implements the individual assessment integrity engine:
// a stateless rule set that inspects candidate learning objectives,
// assessments and evidence artifacts and accepts or rejects them against
// individual-only assessment invariants.
package integrity

// Result accumulates the outcome of one or more integrity checks. Errors are
// blocking; warnings are advisory and never flip IsValid to false. Checks
// return a Result instead of an error so callers can aggregate several
// independent checks without short-circuiting: every violation in a batch is
// surfaced in one pass.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewResult returns a valid, empty result.
func NewResult() *Result {
	return &Result{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}
}

// AddError records a blocking violation and marks the result invalid.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning records an advisory, non-blocking signal.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge folds another result into r, preserving message order.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if !other.IsValid {
		r.IsValid = false
	}
}
