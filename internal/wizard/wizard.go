// Package wizard implements the multi-step form wizard state machine:
// ordered top-level steps, ordered sub-steps within the form step, and the
// timer-driven processing transition.
package wizard

import "fmt"

// Step is a top-level wizard step.
type Step string

// SubStep is a data-entry panel within the StepFillForm step.
type SubStep string

// Top-level steps, in order.
const (
	StepFillForm         Step = "fill-form"
	StepProcessing       Step = "processing"
	StepPreviewCustomize Step = "preview-customize"
)

// Sub-steps within fill-form, in order.
const (
	SubStepPersonalInfo SubStep = "personal-info"
	SubStepExperience   SubStep = "experience"
	SubStepEducation    SubStep = "education"
	SubStepSkills       SubStep = "skills"
)

var steps = []Step{StepFillForm, StepProcessing, StepPreviewCustomize}

var subSteps = []SubStep{SubStepPersonalInfo, SubStepExperience, SubStepEducation, SubStepSkills}

// Position is one wizard state: the pair (step, sub-step). The sub-step is
// meaningful only while Step is StepFillForm.
type Position struct {
	Step    Step    `json:"step"`
	SubStep SubStep `json:"subStep"`
}

// Initial returns the state a fresh session starts in.
func Initial() Position {
	return Position{Step: StepFillForm, SubStep: SubStepPersonalInfo}
}

// ParseStep validates a wire-format step value.
func ParseStep(s string) (Step, error) {
	for _, step := range steps {
		if string(step) == s {
			return step, nil
		}
	}
	return "", fmt.Errorf("unknown step: %q", s)
}

// ParseSubStep validates a wire-format sub-step value.
func ParseSubStep(s string) (SubStep, error) {
	for _, sub := range subSteps {
		if string(sub) == s {
			return sub, nil
		}
	}
	return "", fmt.Errorf("unknown sub-step: %q", s)
}

func stepIndex(s Step) int {
	for i, step := range steps {
		if step == s {
			return i
		}
	}
	return -1
}

func subStepIndex(s SubStep) int {
	for i, sub := range subSteps {
		if sub == s {
			return i
		}
	}
	return -1
}

// Next advances the wizard one state forward. Within fill-form it walks the
// sub-steps in order; from the last sub-step it enters processing (the
// caller is responsible for scheduling the auto-advance out of processing).
// At preview-customize, Next is a no-op: there is no step after it.
func Next(p Position) Position {
	if p.Step == StepFillForm {
		if i := subStepIndex(p.SubStep); i >= 0 && i < len(subSteps)-1 {
			p.SubStep = subSteps[i+1]
			return p
		}
		p.Step = StepProcessing
		return p
	}
	if i := stepIndex(p.Step); i >= 0 && i < len(steps)-1 {
		p.Step = steps[i+1]
	}
	return p
}

// Previous moves the wizard one state back. Within fill-form it walks the
// sub-steps backwards and is a no-op at the first sub-step. Re-entering
// fill-form from a later step lands on the last sub-step, not the first:
// the user backing out of the preview resumes where data entry ended.
// Processing is transient and timer-owned, so backward navigation never
// lands on it; a step back from processing or preview-customize goes
// straight to the form.
func Previous(p Position) Position {
	if p.Step == StepFillForm {
		if i := subStepIndex(p.SubStep); i > 0 {
			p.SubStep = subSteps[i-1]
		}
		return p
	}
	p.Step = StepFillForm
	p.SubStep = subSteps[len(subSteps)-1]
	return p
}
