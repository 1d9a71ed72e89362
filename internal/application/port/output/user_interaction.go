package output

import (
	"context"
	"time"

	"registration-agent/internal/domain/entity"
)

type UserInteractionPort interface {
	// Confirm returns errs.ErrInputClosed when the input stream ends
	// before a line is read.
	Confirm(ctx context.Context, question string) (bool, error)
	WaitForEnter(ctx context.Context, message string, timeout time.Duration) error

	ShowStep(ctx context.Context, message string)
	ShowWarning(ctx context.Context, message string)
	ShowError(ctx context.Context, message string)
	ShowReport(ctx context.Context, report *entity.RunReport)
}
