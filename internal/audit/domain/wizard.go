package domain

import "fmt"

const (
	FirstStep = 1
	LastStep  = 3
)

// Wizard is the state of the three-step audit questionnaire.
// Moving forward is gated by the current step's fields; moving back keeps answers.
type Wizard struct {
	step    int
	answers Answers
}

// ResumeWizard rebuilds a wizard at step with the answers entered so far.
func ResumeWizard(step int, answers Answers) (*Wizard, error) {
	if step < FirstStep || step > LastStep {
		return nil, fmt.Errorf("step %d out of range %d-%d", step, FirstStep, LastStep)
	}
	answers.Normalize()
	return &Wizard{step: step, answers: answers}, nil
}

func (w *Wizard) Step() int        { return w.step }
func (w *Wizard) Answers() Answers { return w.answers }

// IsLast reports whether the wizard sits on the submission step.
func (w *Wizard) IsLast() bool { return w.step == LastStep }

// SetAnswers replaces the answers without moving between steps.
func (w *Wizard) SetAnswers(answers Answers) {
	answers.Normalize()
	w.answers = answers
}

// Next validates the current step and advances. On the last step it only validates.
func (w *Wizard) Next() error {
	if err := w.answers.ValidateStep(w.step); err != nil {
		return err
	}
	if w.step < LastStep {
		w.step++
	}
	return nil
}

// Back moves to the previous step, never below the first one.
func (w *Wizard) Back() {
	if w.step > FirstStep {
		w.step--
	}
}

// Reset returns the wizard to a blank first step.
func (w *Wizard) Reset() {
	w.step = FirstStep
	w.answers = Answers{}
}
