package output

import (
	"context"
	"time"

	"registration-agent/internal/domain/entity"
)

// Element is a handle to a single interactive element on the page.
type Element interface {
	Attribute(ctx context.Context, name string) (string, error)
	Fill(ctx context.Context, text string) error
	Click(ctx context.Context) error
}

// BrowserPort is the single page the workflow drives. Lookups that miss
// return an error wrapping errs.ErrElementNotFound.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, loc entity.Locator, timeout time.Duration) error
	Find(ctx context.Context, loc entity.Locator) (Element, error)
	FindAll(ctx context.Context, name string) ([]Element, error)

	// TakeDialog returns the text of a native dialog raised since the last
	// call. The dialog has already been accepted.
	TakeDialog(ctx context.Context) (string, bool)
	// DrainDialogs discards and returns every dialog raised so far.
	DrainDialogs(ctx context.Context) []string
	HTML(ctx context.Context) (string, error)
	Inputs(ctx context.Context, limit int) ([]entity.InputSummary, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	CurrentURL() string
	Close()
}

type BrowserLauncher interface {
	Launch(ctx context.Context) (BrowserPort, error)
}
