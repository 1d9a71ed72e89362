package registration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"registration-agent/internal/application/port/input"
	"registration-agent/internal/application/port/output"
	"registration-agent/internal/domain/entity"
	"registration-agent/internal/domain/errs"

	"github.com/google/uuid"
)

var _ input.RegistrationRunner = (*Engine)(nil)

const (
	inventoryLimit        = 21
	defaultElementTimeout = 10 * time.Second
)

type Config struct {
	TargetURL  string
	AutoSubmit bool

	ElementTimeout time.Duration
	PageDwell      time.Duration
	SlotDwell      time.Duration
	FormDwell      time.Duration
	SubmitDwell    time.Duration
	CancelGrace    time.Duration
	CloseWait      time.Duration

	ScreenshotPath string
}

func DefaultConfig() Config {
	return Config{
		ElementTimeout: defaultElementTimeout,
		PageDwell:      3 * time.Second,
		SlotDwell:      2 * time.Second,
		FormDwell:      3 * time.Second,
		SubmitDwell:    3 * time.Second,
		CancelGrace:    5 * time.Second,
		CloseWait:      10 * time.Minute,
	}
}

type Option func(*Engine)

// WithFields replaces the population table.
func WithFields(fields []entity.FieldSpec) Option {
	return func(e *Engine) { e.fields = fields }
}

// WithSleep replaces the dwell implementation.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) { e.sleep = sleep }
}

func WithClassifier(c *Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// Engine runs one registration: slot selection, form population, optional
// confirmation, submission and classification.
type Engine struct {
	cfg        Config
	launcher   output.BrowserLauncher
	ui         output.UserInteractionPort
	logger     output.LoggerPort
	resolver   *Resolver
	classifier *Classifier
	fields     []entity.FieldSpec
	sleep      func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, launcher output.BrowserLauncher, ui output.UserInteractionPort, logger output.LoggerPort, opts ...Option) *Engine {
	if cfg.ElementTimeout <= 0 {
		cfg.ElementTimeout = defaultElementTimeout
	}
	e := &Engine{
		cfg:        cfg,
		launcher:   launcher,
		ui:         ui,
		logger:     logger,
		resolver:   NewResolver(logger),
		classifier: NewClassifier(logger, nil, nil),
		fields:     DefaultFields(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run is the state owned by a single Run call.
type run struct {
	sm      *stateMachine
	report  *entity.RunReport
	session output.BrowserPort
	logger  output.LoggerPort
}

func (r *run) advance(to entity.WorkflowState) error {
	from := r.sm.current
	if err := r.sm.advance(to); err != nil {
		return err
	}
	r.report.State = to
	r.logger.Info("State transition", "from", from, "to", to)
	return nil
}

func (r *run) warn(msg string) {
	r.report.Warnings = append(r.report.Warnings, msg)
}

// Run drives the workflow to a terminal state. The returned report is never
// nil. A non-nil error means the run ended in Failed.
func (e *Engine) Run(ctx context.Context, profile entity.Profile) (*entity.RunReport, error) {
	runID := uuid.NewString()
	r := &run{
		sm: newStateMachine(),
		report: &entity.RunReport{
			RunID:     runID,
			State:     entity.StateInitialized,
			Outcome:   entity.OutcomeAborted,
			StartedAt: time.Now(),
		},
		logger: e.logger.WithField("run_id", runID),
	}

	defer func() {
		if r.session != nil {
			r.session.Close()
			r.logger.Debug("Browser session released")
		}
	}()

	err := e.drive(ctx, r, profile)
	r.report.FinishedAt = time.Now()
	if err != nil {
		if advErr := r.advance(entity.StateFailed); advErr != nil {
			r.logger.Error("Could not record failure", "error", advErr)
		}
		r.logger.Error("Registration failed", "error", err, "outcome", r.report.Outcome)
		return r.report, err
	}

	r.logger.Info("Registration finished",
		"outcome", r.report.Outcome,
		"cancelled", r.report.Cancelled,
		"filled", r.report.Filled(),
		"skipped", len(r.report.Skipped()),
	)
	return r.report, nil
}

func (e *Engine) drive(ctx context.Context, r *run, profile entity.Profile) error {
	if missing := profile.MissingMandatory(); len(missing) > 0 {
		return errs.Configuration(missing...)
	}
	if err := r.advance(entity.StateSessionReady); err != nil {
		return err
	}

	if err := e.openPage(ctx, r); err != nil {
		return err
	}
	if err := r.advance(entity.StatePageLoaded); err != nil {
		return err
	}

	if err := e.selectSlot(ctx, r); err != nil {
		return err
	}
	if err := r.advance(entity.StateSlotSelected); err != nil {
		return err
	}

	if err := e.fillForm(ctx, r, profile); err != nil {
		return err
	}
	if err := r.advance(entity.StateFormFilled); err != nil {
		return err
	}

	confirmed, err := e.confirm(ctx, r)
	if err != nil {
		return err
	}
	if !confirmed {
		return e.cancel(ctx, r)
	}

	if err := e.submit(ctx, r); err != nil {
		return err
	}
	if err := r.advance(entity.StateSubmitted); err != nil {
		return err
	}

	return e.classify(ctx, r)
}

func (e *Engine) openPage(ctx context.Context, r *run) error {
	if e.cfg.TargetURL == "" {
		return errs.Configuration("REGISTRATION_URL")
	}

	session, err := e.launcher.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	r.session = session

	e.ui.ShowStep(ctx, fmt.Sprintf("Opening registration page: %s", e.cfg.TargetURL))
	if err := session.Navigate(ctx, e.cfg.TargetURL); err != nil {
		return fmt.Errorf("open registration page: %w", err)
	}
	return e.sleep(ctx, e.cfg.PageDwell)
}

func (e *Engine) selectSlot(ctx context.Context, r *run) error {
	e.ui.ShowStep(ctx, "Looking for an available appointment slot...")

	slotLoc := entity.Locator{Name: slotGroupName}
	if err := r.session.WaitFor(ctx, slotLoc, e.cfg.ElementTimeout); err != nil && !errors.Is(err, errs.ErrElementNotFound) {
		return fmt.Errorf("wait for slots: %w", err)
	}

	slots, err := r.session.FindAll(ctx, slotGroupName)
	if err != nil && !errors.Is(err, errs.ErrElementNotFound) {
		return fmt.Errorf("enumerate slots: %w", err)
	}
	if len(slots) == 0 {
		return errs.NotFound(fmt.Sprintf("no appointment slot %s", slotLoc))
	}

	slot := slots[0]
	code, err := slot.Attribute(ctx, "value")
	if err != nil {
		r.logger.Warn("Could not read slot code", "error", err)
	}
	r.report.SlotCode = code
	r.logger.Info("Slot found", "available", len(slots), "code", code)
	e.ui.ShowStep(ctx, fmt.Sprintf("Found available slot, code: %s", code))

	if err := slot.Click(ctx); err != nil {
		return fmt.Errorf("select slot %q: %w", code, err)
	}
	return e.sleep(ctx, e.cfg.SlotDwell)
}

// fillForm populates every field. Missing elements are warnings; only a
// cancelled context stops it.
func (e *Engine) fillForm(ctx context.Context, r *run, profile entity.Profile) error {
	e.ui.ShowStep(ctx, "Filling in the registration form...")

	if err := e.sleep(ctx, e.cfg.FormDwell); err != nil {
		return fmt.Errorf("wait for form: %w", err)
	}
	if len(e.fields) > 0 && len(e.fields[0].Candidates) > 0 {
		marker := entity.Locator{Name: e.fields[0].Candidates[0]}
		if err := r.session.WaitFor(ctx, marker, e.cfg.ElementTimeout); err != nil {
			msg := fmt.Sprintf("form did not confirm render (%s): %v", marker, err)
			r.warn(msg)
			e.ui.ShowWarning(ctx, msg)
		}
	}

	e.logInventory(ctx, r)

	for _, spec := range e.fields {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fill form: %w", err)
		}
		result := e.resolver.Populate(ctx, r.session, spec, profile)
		r.report.Fields = append(r.report.Fields, result)

		if result.Status == entity.FieldFilled {
			r.logger.Info("Field filled", "field", result.Field, "locator", result.Locator.String())
			e.ui.ShowStep(ctx, fmt.Sprintf("Filled %s", result.Label))
			continue
		}

		r.logger.Warn("Field skipped", "field", result.Field, "reason", result.Reason)
		if result.Reason == noProfileValue {
			continue
		}
		msg := fmt.Sprintf("%s skipped: %s", result.Label, result.Reason)
		r.warn(msg)
		e.ui.ShowWarning(ctx, msg)
	}

	e.ui.ShowStep(ctx, fmt.Sprintf("Form filled (%d of %d fields)", r.report.Filled(), len(r.report.Fields)))
	return nil
}

func (e *Engine) logInventory(ctx context.Context, r *run) {
	inputs, err := r.session.Inputs(ctx, inventoryLimit)
	if err != nil {
		r.logger.Debug("Input inventory unavailable", "error", err)
		return
	}
	for i, in := range inputs {
		r.logger.Debug("Form input",
			"index", i+1,
			"name", in.Name,
			"type", in.Type,
			"id", in.ID,
			"value", in.Value,
			"placeholder", in.Placeholder,
			"hidden", in.Hidden,
		)
	}
}

func (e *Engine) confirm(ctx context.Context, r *run) (bool, error) {
	if e.cfg.AutoSubmit {
		e.ui.ShowStep(ctx, "Automatic mode: submitting without confirmation")
		return true, r.advance(entity.StateConfirmed)
	}

	if err := r.advance(entity.StateAwaitingConfirmation); err != nil {
		return false, err
	}

	ok, err := e.ui.Confirm(ctx, "Submit the form? (y/N)")
	switch {
	case errors.Is(err, errs.ErrInputClosed):
		r.logger.Info("Confirmation input closed, treating as cancel")
		e.ui.ShowStep(ctx, "No confirmation input; submission cancelled, form left filled in")
		if err := r.advance(entity.StateCancelled); err != nil {
			return false, err
		}
		return false, e.sleep(ctx, e.cfg.CancelGrace)
	case err != nil:
		return false, fmt.Errorf("read confirmation: %w", err)
	case ok:
		return true, r.advance(entity.StateConfirmed)
	}

	if err := r.advance(entity.StateCancelled); err != nil {
		return false, err
	}
	e.ui.ShowStep(ctx, "Submission cancelled; check the form in the browser")
	err = e.ui.WaitForEnter(ctx, "Press Enter to close the browser...", e.cfg.CloseWait)
	if errors.Is(err, errs.ErrInputClosed) {
		return false, e.sleep(ctx, e.cfg.CancelGrace)
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		r.logger.Warn("Waiting for close failed", "error", err)
	}
	return false, nil
}

func (e *Engine) cancel(ctx context.Context, r *run) error {
	r.report.Cancelled = true
	r.report.Outcome = entity.OutcomeAborted
	return r.advance(entity.StateSucceeded)
}

func (e *Engine) submit(ctx context.Context, r *run) error {
	e.ui.ShowStep(ctx, "Submitting the form...")

	button, err := r.session.Find(ctx, entity.Locator{Name: submitButtonName})
	if err != nil {
		return errs.Submission(err)
	}

	// Only dialogs raised by the submit click count towards the outcome.
	for _, text := range r.session.DrainDialogs(ctx) {
		r.logger.Warn("Dialog before submission ignored", "text", text)
		r.warn(fmt.Sprintf("dialog before submission ignored: %s", text))
	}

	if err := button.Click(ctx); err != nil {
		return errs.Submission(err)
	}
	r.logger.Info("Submit clicked")

	if err := e.sleep(ctx, e.cfg.SubmitDwell); err != nil {
		return errs.Submission(err)
	}
	return nil
}

func (e *Engine) classify(ctx context.Context, r *run) error {
	c := e.classifier.Classify(ctx, r.session)
	r.report.Classification = c
	r.report.Outcome = c.Outcome

	e.saveScreenshot(ctx, r)

	if c.HadDialog {
		e.ui.ShowStep(ctx, fmt.Sprintf("System message: %s", c.DialogText))
	} else {
		e.ui.ShowStep(ctx, fmt.Sprintf("Current page: %s", c.URL))
	}

	if c.Outcome == entity.OutcomeRejected {
		return errs.ErrRejected
	}
	return r.advance(entity.StateSucceeded)
}

// saveScreenshot stores the final page when configured. Failures only warn.
func (e *Engine) saveScreenshot(ctx context.Context, r *run) {
	if e.cfg.ScreenshotPath == "" {
		return
	}
	shot, err := r.session.Screenshot(ctx)
	if err != nil {
		r.logger.Warn("Screenshot failed", "error", err)
		return
	}
	if dir := filepath.Dir(e.cfg.ScreenshotPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			r.logger.Warn("Screenshot dir not writable", "error", err)
			return
		}
	}
	if err := os.WriteFile(e.cfg.ScreenshotPath, shot.Data, 0644); err != nil {
		r.logger.Warn("Screenshot not saved", "error", err)
		return
	}
	r.logger.Info("Screenshot saved", "path", e.cfg.ScreenshotPath, "width", shot.Width, "height", shot.Height)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
