package harness

import "github.com/REC17/cadnano2/internal/session"

// StepRecord is one executed command, setup included.
type StepRecord struct {
	Seq     int64             `json:"seq"`
	Op      session.Op        `json:"op"`
	Outcome string            `json:"outcome"` // "ok" or "error"
	Label   string            `json:"label,omitempty"`
	Calls   int               `json:"calls,omitempty"`
	Code    session.ErrorCode `json:"code,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step behaved as expected and every assertion held.
	Pass bool `json:"pass"`

	// Session is the id the commands were journaled under.
	Session string `json:"session"`

	// Steps lists every command in seq order.
	Steps []StepRecord `json:"steps"`

	// Errors describes each failed expectation. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Diagram is the final design as rendered by vhelix.Design.Diagram.
	Diagram string `json:"diagram"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepRecord{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addStep(rec StepRecord) {
	r.Steps = append(r.Steps, rec)
}
