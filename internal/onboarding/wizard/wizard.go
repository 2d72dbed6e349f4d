// Package wizard drives the three-step onboarding flow: step gating,
// draft persistence, and handoff to the profile service on submit.
package wizard

import (
	"context"
	stderrors "errors"
	"strconv"
	"sync"
	"time"

	"startup-onboarding/internal/common/auth"
	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/common/metrics"
	"startup-onboarding/internal/onboarding/draft"
	"startup-onboarding/internal/onboarding/form"
	"startup-onboarding/internal/onboarding/profile"
)

const (
	FirstStep = 1
	LastStep  = 3
)

var (
	// ErrNotOnFinalStep is returned when Submit is invoked before the
	// founders step is reached.
	ErrNotOnFinalStep = stderrors.New("submit is only available on the final step")

	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = stderrors.New("a submission is already in progress")
)

// Submitter is the external profile-creation collaborator.
type Submitter interface {
	CreateStartupProfile(ctx context.Context, user *auth.User, data *form.StartupFormData) (*profile.StoredProfile, error)
}

// Recorder receives submission outcomes. A nil Recorder disables it.
type Recorder interface {
	RecordSubmission(ctx context.Context, status string)
	RecordSubmissionDuration(ctx context.Context, duration time.Duration, status string)
}

// State is a point-in-time snapshot handed to the presentation layer.
// Data is a copy; mutating it does not affect the wizard.
type State struct {
	Step          int                    `json:"step"`
	Data          *form.StartupFormData  `json:"data"`
	Errors        form.StartupFormErrors `json:"errors"`
	FounderErrors form.FounderErrors     `json:"founder_errors,omitempty"`
	Submitting    bool                   `json:"submitting"`
	Completed     bool                   `json:"completed"`
}

// Wizard holds one user's onboarding session. All methods are safe for
// concurrent use, though the flow is effectively serial per user.
type Wizard struct {
	mu sync.Mutex

	user      *auth.User
	store     draft.Store
	submitter Submitter
	recorder  Recorder
	logger    logger.Logger

	data        *form.StartupFormData
	step        int
	errs        form.StartupFormErrors
	founderErrs form.FounderErrors
	submitting  bool
	completed   bool
}

// New builds a wizard for the given user, rehydrating any saved draft
// and step. A missing, corrupt, or out-of-range saved state falls back
// to a fresh draft on the first step.
func New(ctx context.Context, user *auth.User, store draft.Store, submitter Submitter, rec Recorder, log logger.Logger) *Wizard {
	w := &Wizard{
		user:      user,
		store:     store,
		submitter: submitter,
		recorder:  rec,
		logger:    log,
		data:      form.NewStartupFormData(),
		step:      FirstStep,
		errs:      form.StartupFormErrors{},
	}

	if saved, ok := store.LoadDraft(ctx, user.ID); ok {
		w.data = saved
	}
	if step, ok := store.LoadStep(ctx, user.ID); ok && step >= FirstStep && step <= LastStep {
		w.step = step
	}

	return w
}

// Snapshot returns the current session state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// UpdateDraft replaces the draft with the given data and persists it.
// Field errors are left untouched; they are rebuilt on the next
// transition attempt.
func (w *Wizard) UpdateDraft(ctx context.Context, data *form.StartupFormData) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	if data != nil {
		if len(data.Founders) == 0 {
			data.Founders = []form.Founder{{}}
		}
		w.data = data.Clone()
		w.store.SaveDraft(ctx, w.user.ID, w.data)
	}
	return w.snapshotLocked()
}

// AddFounder appends a blank founder and persists the draft.
func (w *Wizard) AddFounder(ctx context.Context) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.data.AddFounder()
	w.store.SaveDraft(ctx, w.user.ID, w.data)
	return w.snapshotLocked()
}

// RemoveFounder removes the founder at index. Removing the last
// remaining founder is a no-op.
func (w *Wizard) RemoveFounder(ctx context.Context, index int) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	before := len(w.data.Founders)
	w.data.RemoveFounder(index)
	if len(w.data.Founders) != before {
		w.store.SaveDraft(ctx, w.user.ID, w.data)
	}
	return w.snapshotLocked()
}

// UpdateFounder replaces the founder at index and persists the draft.
func (w *Wizard) UpdateFounder(ctx context.Context, index int, f form.Founder) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.data.UpdateFounder(index, f)
	w.store.SaveDraft(ctx, w.user.ID, w.data)
	return w.snapshotLocked()
}

// Next validates the current step. When the step's fields are clean
// the wizard advances, otherwise it stays put and surfaces the errors.
func (w *Wizard) Next(ctx context.Context) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	stepErrs := form.ValidateStep(w.step, w.data)
	if len(stepErrs) > 0 {
		w.errs = stepErrs
		w.founderErrs = nil
		if w.step == LastStep {
			w.founderErrs = form.ValidateFounders(w.data.Founders)
		}
		metrics.WizardTransitions.WithLabelValues("next", "blocked").Inc()
		metrics.ValidationFailures.WithLabelValues(strconv.Itoa(w.step)).Inc()
		return w.snapshotLocked()
	}

	w.errs = form.StartupFormErrors{}
	w.founderErrs = nil
	if w.step < LastStep {
		w.step++
		w.store.SaveStep(ctx, w.user.ID, w.step)
	}
	metrics.WizardTransitions.WithLabelValues("next", "advanced").Inc()
	return w.snapshotLocked()
}

// Back moves one step toward the start. It never fails and always
// clears the error map so stale errors from the abandoned step cannot
// reappear.
func (w *Wizard) Back(ctx context.Context) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.errs = form.StartupFormErrors{}
	w.founderErrs = nil
	if w.step > FirstStep {
		w.step--
		w.store.SaveStep(ctx, w.user.ID, w.step)
	}
	metrics.WizardTransitions.WithLabelValues("back", "moved").Inc()
	return w.snapshotLocked()
}

// Submit runs the final founders check and hands the draft to the
// profile service. On success the saved draft is cleared and the
// stored profile returned. On a collaborator failure the draft is kept
// intact and the failure's message is surfaced under the "submit" key.
//
// Submit returns ErrNotOnFinalStep unless the wizard is on the last
// step, and ErrSubmitInFlight while a previous call is still running.
func (w *Wizard) Submit(ctx context.Context) (State, *profile.StoredProfile, error) {
	w.mu.Lock()
	if w.step != LastStep {
		state := w.snapshotLocked()
		w.mu.Unlock()
		return state, nil, ErrNotOnFinalStep
	}
	if w.submitting {
		state := w.snapshotLocked()
		w.mu.Unlock()
		return state, nil, ErrSubmitInFlight
	}

	stepErrs := form.ValidateStep(LastStep, w.data)
	if len(stepErrs) > 0 {
		w.errs = stepErrs
		w.founderErrs = form.ValidateFounders(w.data.Founders)
		metrics.ValidationFailures.WithLabelValues(strconv.Itoa(LastStep)).Inc()
		state := w.snapshotLocked()
		w.mu.Unlock()
		return state, nil, nil
	}

	w.submitting = true
	snapshot := w.data.Clone()
	w.mu.Unlock()

	start := time.Now()
	stored, err := w.submitter.CreateStartupProfile(ctx, w.user, snapshot)
	elapsed := time.Since(start)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failure").Inc()
		metrics.SubmissionDuration.WithLabelValues("failure").Observe(elapsed.Seconds())
		if w.recorder != nil {
			w.recorder.RecordSubmission(ctx, "failure")
			w.recorder.RecordSubmissionDuration(ctx, elapsed, "failure")
		}

		w.errs = form.StartupFormErrors{"submit": errors.UserMessage(err)}
		w.founderErrs = nil
		w.logger.WithFields(map[string]interface{}{
			"userId": w.user.ID,
		}).WithError(err).Warn("Startup profile submission failed", nil)
		return w.snapshotLocked(), nil, nil
	}

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	metrics.SubmissionDuration.WithLabelValues("success").Observe(elapsed.Seconds())
	if w.recorder != nil {
		w.recorder.RecordSubmission(ctx, "success")
		w.recorder.RecordSubmissionDuration(ctx, elapsed, "success")
	}

	w.store.Clear(ctx, w.user.ID)
	w.errs = form.StartupFormErrors{}
	w.founderErrs = nil
	w.completed = true
	w.logger.WithFields(map[string]interface{}{
		"userId":    w.user.ID,
		"startupId": stored.ID,
	}).Info("Startup profile submitted", nil)

	return w.snapshotLocked(), stored, nil
}

func (w *Wizard) snapshotLocked() State {
	errs := make(form.StartupFormErrors, len(w.errs))
	for k, v := range w.errs {
		errs[k] = v
	}

	var founderErrs form.FounderErrors
	if len(w.founderErrs) > 0 {
		founderErrs = make(form.FounderErrors, len(w.founderErrs))
		for i, msgs := range w.founderErrs {
			founderErrs[i] = append([]string(nil), msgs...)
		}
	}

	return State{
		Step:          w.step,
		Data:          w.data.Clone(),
		Errors:        errs,
		FounderErrors: founderErrs,
		Submitting:    w.submitting,
		Completed:     w.completed,
	}
}
