package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"registration-agent/internal/application/port/output"
	"registration-agent/internal/domain/entity"
	"registration-agent/internal/domain/errs"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

type fakeElement struct {
	loc      entity.Locator
	session  *fakeSession
	clickErr error
	value    string
	onClick  func(*fakeSession)
}

func (e *fakeElement) Attribute(_ context.Context, name string) (string, error) {
	if name == "value" {
		return e.loc.Value, nil
	}
	return "", nil
}

func (e *fakeElement) Fill(_ context.Context, text string) error {
	e.value = text
	e.session.filled[e.loc.Name] = text
	return nil
}

func (e *fakeElement) Click(_ context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.session.clicked = append(e.session.clicked, e.loc)
	if e.onClick != nil {
		e.onClick(e.session)
	}
	if e.loc.Name == submitButtonName {
		e.session.submitted = true
		if e.session.onSubmit != nil {
			e.session.onSubmit(e.session)
		}
	}
	return nil
}

// fakeSession is an in-memory page made of name/value elements.
type fakeSession struct {
	elements  []*fakeElement
	filled    map[string]string
	clicked   []entity.Locator
	html      string
	url       string
	dialogs   []string
	submitted bool
	closed    bool
	onSubmit  func(*fakeSession)
	findErr   error
}

func newFakeSession(locs ...entity.Locator) *fakeSession {
	s := &fakeSession{filled: map[string]string{}, url: "https://example.test/reg"}
	for _, loc := range locs {
		s.add(loc)
	}
	return s
}

func (s *fakeSession) add(loc entity.Locator) *fakeElement {
	el := &fakeElement{loc: loc, session: s}
	s.elements = append(s.elements, el)
	return el
}

// fullForm returns a page exposing one slot, every text field and both
// options of each choice field.
func fullForm() *fakeSession {
	s := newFakeSession(entity.Locator{Name: slotGroupName, Value: "A01"})
	for _, name := range []string{"pid", "pname", "pbirth_yyyy", "pbirth_mm", "pbirth_dd", "mobile", "zipcode", "addr", "emConName", "emConPhone"} {
		s.add(entity.Locator{Name: name})
	}
	for _, name := range []string{"smok_secondhand", "smok_use", "smok_drike", "smok_betelnut", "q2", "q3"} {
		s.add(entity.Locator{Name: name, Value: "Y"})
		s.add(entity.Locator{Name: name, Value: "N"})
	}
	s.add(entity.Locator{Name: submitButtonName})
	return s
}

func (s *fakeSession) without(name string) *fakeSession {
	kept := s.elements[:0]
	for _, el := range s.elements {
		if el.loc.Name != name {
			kept = append(kept, el)
		}
	}
	s.elements = kept
	return s
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.url = url
	return nil
}

func (s *fakeSession) WaitFor(ctx context.Context, loc entity.Locator, _ time.Duration) error {
	_, err := s.Find(ctx, loc)
	return err
}

func (s *fakeSession) Find(_ context.Context, loc entity.Locator) (output.Element, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, el := range s.elements {
		if el.loc.Name == loc.Name && (loc.Value == "" || el.loc.Value == loc.Value) {
			return el, nil
		}
	}
	return nil, errs.NotFound(loc.String())
}

func (s *fakeSession) FindAll(_ context.Context, name string) ([]output.Element, error) {
	var out []output.Element
	for _, el := range s.elements {
		if el.loc.Name == name {
			out = append(out, el)
		}
	}
	return out, nil
}

func (s *fakeSession) TakeDialog(context.Context) (string, bool) {
	if len(s.dialogs) == 0 {
		return "", false
	}
	text := s.dialogs[0]
	s.dialogs = s.dialogs[1:]
	return text, true
}

func (s *fakeSession) DrainDialogs(context.Context) []string {
	drained := s.dialogs
	s.dialogs = nil
	return drained
}

func (s *fakeSession) raise(text string) {
	s.dialogs = append(s.dialogs, text)
}

func (s *fakeSession) HTML(context.Context) (string, error) { return s.html, nil }

func (s *fakeSession) Inputs(_ context.Context, limit int) ([]entity.InputSummary, error) {
	var out []entity.InputSummary
	for _, el := range s.elements {
		if len(out) >= limit {
			break
		}
		out = append(out, entity.InputSummary{Name: el.loc.Name, Value: el.loc.Value})
	}
	return out, nil
}

func (s *fakeSession) Screenshot(context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Data: []byte{0xff, 0xd8}, Format: "jpeg", Width: 1, Height: 1}, nil
}

func (s *fakeSession) CurrentURL() string { return s.url }
func (s *fakeSession) Close()             { s.closed = true }

func (s *fakeSession) clickedNames() []string {
	out := make([]string, 0, len(s.clicked))
	for _, loc := range s.clicked {
		out = append(out, loc.String())
	}
	return out
}

type fakeLauncher struct {
	session  *fakeSession
	launched int
	err      error
}

func (l *fakeLauncher) Launch(context.Context) (output.BrowserPort, error) {
	l.launched++
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

// fakeUI answers confirmations from a queue and records narration.
type fakeUI struct {
	answers  []string
	steps    []string
	warnings []string
	waited   int
	closed   bool
}

func (u *fakeUI) Confirm(context.Context, string) (bool, error) {
	if len(u.answers) == 0 {
		return false, errs.ErrInputClosed
	}
	a := u.answers[0]
	u.answers = u.answers[1:]
	return strings.EqualFold(strings.TrimSpace(a), "y"), nil
}

func (u *fakeUI) WaitForEnter(context.Context, string, time.Duration) error {
	u.waited++
	if u.closed {
		return errs.ErrInputClosed
	}
	return nil
}

func (u *fakeUI) ShowStep(_ context.Context, m string)          { u.steps = append(u.steps, m) }
func (u *fakeUI) ShowWarning(_ context.Context, m string)       { u.warnings = append(u.warnings, m) }
func (u *fakeUI) ShowError(context.Context, string)             {}
func (u *fakeUI) ShowReport(context.Context, *entity.RunReport) {}

var errBoom = errors.New("boom")

func validProfile() entity.Profile {
	return entity.Profile{
		IDNumber:  "A123456789",
		Name:      "王小明",
		BirthDate: "1990/01/01",
		Phone:     "0912345678",
	}
}

func noSleep(context.Context, time.Duration) error { return nil }
