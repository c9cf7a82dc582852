package model

import "fmt"

// Step is a page of the application form. StepSubmitted is terminal.
type Step int

const (
	StepPersonal Step = iota + 1
	StepReferral
	StepCareer
	StepSubmitted
)

// FirstStep and LastStep bound the editable pages.
const (
	FirstStep = StepPersonal
	LastStep  = StepCareer
)

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepReferral:
		return "referral"
	case StepCareer:
		return "career"
	case StepSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

func (s Step) Editable() bool {
	return s >= FirstStep && s <= LastStep
}
