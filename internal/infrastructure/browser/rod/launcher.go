package rod

import (
	"context"

	"registration-agent/internal/application/port/output"
)

var _ output.BrowserLauncher = (*Launcher)(nil)

// Launcher starts a fresh browser per registration run.
type Launcher struct {
	cfg BrowserConfig
}

func NewLauncher(cfg BrowserConfig) *Launcher {
	return &Launcher{cfg: cfg}
}

func (l *Launcher) Launch(ctx context.Context) (output.BrowserPort, error) {
	return NewBrowserAdapter(ctx, l.cfg)
}
