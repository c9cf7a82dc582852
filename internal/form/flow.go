package form

import (
	"fmt"

	"github.com/fadilmartias/jobapply/internal/model"
)

// Flow is the step state machine: Personal -> Referral -> Career -> Submitted.
// Next and Submit are gated by the schema; Back is not.
type Flow struct {
	schema *Schema
}

func NewFlow(schema *Schema) *Flow {
	return &Flow{schema: schema}
}

// Next advances the draft when its current step validates. On failure every
// offending field is marked touched and a *ValidationError is returned.
func (f *Flow) Next(d *model.Draft) error {
	if d.Step < model.FirstStep || d.Step >= model.LastStep {
		return fmt.Errorf("%w: next from %s", ErrInvalidTransition, d.Step)
	}
	if errs := f.schema.ValidateStep(&d.Values, d.Step); len(errs) > 0 {
		d.Touch(errs.Paths()...)
		return &ValidationError{Step: d.Step, Errors: errs}
	}
	d.Step++
	return nil
}

func (f *Flow) Back(d *model.Draft) error {
	if d.Step <= model.FirstStep || d.Step > model.LastStep {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, d.Step)
	}
	d.Step--
	return nil
}

// CheckSubmit runs the full validation a draft must pass before it is sent.
func (f *Flow) CheckSubmit(d *model.Draft) error {
	if d.Step != model.LastStep {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, d.Step)
	}
	if errs := f.schema.ValidateAll(&d.Values); len(errs) > 0 {
		d.Touch(errs.Paths()...)
		return &ValidationError{Step: d.Step, Errors: errs}
	}
	return nil
}

// Complete moves an accepted draft into the terminal state.
func (f *Flow) Complete(d *model.Draft) error {
	if d.Step != model.LastStep {
		return fmt.Errorf("%w: complete from %s", ErrInvalidTransition, d.Step)
	}
	d.Step = model.StepSubmitted
	return nil
}

// VisibleErrors are the current step's errors on fields the applicant has touched.
func (f *Flow) VisibleErrors(d *model.Draft) FieldErrors {
	if !d.Step.Editable() {
		return FieldErrors{}
	}
	return f.schema.ValidateStep(&d.Values, d.Step).Visible(d.Touched)
}
