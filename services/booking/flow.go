package booking

import (
	"time"

	"trimly/models"
	"trimly/utils"
)

// Wizard steps. The pointer never leaves [StepService, StepConfirm].
const (
	StepService  = 1
	StepSchedule = 2
	StepConfirm  = 3
)

// Flow drives the 3-step booking wizard over a BookingDraft: pick a
// service, pick a date and time, confirm. Selections may be overwritten
// freely until submission; only Advance is gated.
type Flow struct {
	draft models.BookingDraft
}

// NewFlow starts a fresh wizard at step 1 with the date defaulted to today.
func NewFlow() *Flow {
	return &Flow{draft: models.BookingDraft{
		Step: StepService,
		Date: time.Now().Format("2006-01-02"),
	}}
}

// RestoreFlow rebuilds a wizard from a persisted draft.
func RestoreFlow(draft models.BookingDraft) *Flow {
	if draft.Step < StepService || draft.Step > StepConfirm {
		draft.Step = StepService
	}
	return &Flow{draft: draft}
}

// SelectService records the chosen service.
func (f *Flow) SelectService(svc models.ServiceOption) {
	chosen := svc
	f.draft.Service = &chosen
}

// SelectDate records the chosen date ("YYYY-MM-DD").
func (f *Flow) SelectDate(date string) {
	f.draft.Date = date
}

// SelectTime records the chosen time-of-day slot label.
func (f *Flow) SelectTime(label string) {
	f.draft.Time = label
}

// Advance moves the step pointer forward. It is rejected while the current
// step's required field is empty, leaving the pointer where it was; at the
// final step it is a no-op.
func (f *Flow) Advance() error {
	switch f.draft.Step {
	case StepService:
		if f.draft.Service == nil {
			return utils.NewValidationError("select a service to continue")
		}
		f.draft.Step = StepSchedule
	case StepSchedule:
		if f.draft.Time == "" {
			return utils.NewValidationError("choose a time to continue")
		}
		f.draft.Step = StepConfirm
	}
	return nil
}

// Back moves the step pointer backward, stopping at step 1.
func (f *Flow) Back() {
	if f.draft.Step > StepService {
		f.draft.Step--
	}
}

// Step returns the current wizard step.
func (f *Flow) Step() int {
	return f.draft.Step
}

// Draft returns a snapshot of the accumulated wizard state.
func (f *Flow) Draft() models.BookingDraft {
	return f.draft
}

// Reset returns the wizard to its initial state.
func (f *Flow) Reset() {
	f.draft = NewFlow().draft
}
