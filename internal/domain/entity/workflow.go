package entity

import "time"

type WorkflowState string

const (
	StateInitialized          WorkflowState = "initialized"
	StateSessionReady         WorkflowState = "session_ready"
	StatePageLoaded           WorkflowState = "page_loaded"
	StateSlotSelected         WorkflowState = "slot_selected"
	StateFormFilled           WorkflowState = "form_filled"
	StateAwaitingConfirmation WorkflowState = "awaiting_confirmation"
	StateConfirmed            WorkflowState = "confirmed"
	StateCancelled            WorkflowState = "cancelled"
	StateSubmitted            WorkflowState = "submitted"
	StateSucceeded            WorkflowState = "succeeded"
	StateFailed               WorkflowState = "failed"
)

func (s WorkflowState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

type SubmissionOutcome string

const (
	OutcomeNone      SubmissionOutcome = ""
	OutcomeAccepted  SubmissionOutcome = "accepted"
	OutcomeRejected  SubmissionOutcome = "rejected"
	OutcomeAmbiguous SubmissionOutcome = "ambiguous"
	OutcomeAborted   SubmissionOutcome = "aborted"
)

// Successful reports whether the outcome counts as a successful submission.
// Ambiguous is treated as success.
func (o SubmissionOutcome) Successful() bool {
	return o == OutcomeAccepted || o == OutcomeAmbiguous
}

type FieldStatus string

const (
	FieldFilled  FieldStatus = "filled"
	FieldSkipped FieldStatus = "skipped"
)

// FieldResult records one population attempt.
type FieldResult struct {
	Field   string
	Label   string
	Status  FieldStatus
	Locator Locator
	Reason  string
}

// Classification is what the outcome classifier observed after submission.
type Classification struct {
	Outcome    SubmissionOutcome
	DialogText string
	HadDialog  bool
	URL        string
}

// RunReport is the per-run summary handed back to the caller.
type RunReport struct {
	RunID          string
	State          WorkflowState
	Outcome        SubmissionOutcome
	Cancelled      bool
	SlotCode       string
	Fields         []FieldResult
	Classification Classification
	Warnings       []string
	StartedAt      time.Time
	FinishedAt     time.Time
}

func (r *RunReport) Filled() int {
	n := 0
	for _, f := range r.Fields {
		if f.Status == FieldFilled {
			n++
		}
	}
	return n
}

func (r *RunReport) Skipped() []FieldResult {
	var out []FieldResult
	for _, f := range r.Fields {
		if f.Status == FieldSkipped {
			out = append(out, f)
		}
	}
	return out
}
