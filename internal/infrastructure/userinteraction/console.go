package userinteraction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"registration-agent/internal/application/port/output"
	"registration-agent/internal/domain/entity"
	"registration-agent/internal/domain/errs"

	"github.com/fatih/color"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

type lineResult struct {
	line string
	err  error
}

type ConsoleUserInteraction struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan lineResult
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return NewConsole(os.Stdin, os.Stdout)
}

func NewConsole(in io.Reader, out io.Writer) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{in: in, out: out}
}

// readLines feeds lines from the input to a channel, so a prompt can give up
// on a timeout without losing the next line to a stale read.
func (u *ConsoleUserInteraction) readLines() <-chan lineResult {
	u.once.Do(func() {
		u.lines = make(chan lineResult, 1)
		go func() {
			defer close(u.lines)
			reader := bufio.NewReader(u.in)
			for {
				line, err := reader.ReadString('\n')
				if line != "" || err == nil {
					u.lines <- lineResult{line: strings.TrimSpace(line)}
				}
				if err != nil {
					if !errors.Is(err, io.EOF) {
						u.lines <- lineResult{err: err}
					}
					return
				}
			}
		}()
	})
	return u.lines
}

func (u *ConsoleUserInteraction) next(ctx context.Context, timeout time.Duration) (string, error) {
	var expire <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expire = t.C
	}

	select {
	case res, ok := <-u.readLines():
		if !ok {
			return "", errs.ErrInputClosed
		}
		if res.err != nil {
			return "", fmt.Errorf("failed to read user input: %w", res.err)
		}
		return res.line, nil
	case <-expire:
		return "", context.DeadlineExceeded
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (u *ConsoleUserInteraction) Confirm(ctx context.Context, question string) (bool, error) {
	color.New(color.FgYellow, color.Bold).Fprintf(u.out, "\n[CONFIRM] %s ", question)

	answer, err := u.next(ctx, 0)
	if err != nil {
		fmt.Fprintln(u.out)
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// WaitForEnter returns nil on a line or when timeout elapses.
func (u *ConsoleUserInteraction) WaitForEnter(ctx context.Context, message string, timeout time.Duration) error {
	fmt.Fprintf(u.out, "\n%s", message)

	_, err := u.next(ctx, timeout)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		fmt.Fprintln(u.out)
		return nil
	}
	return err
}

func (u *ConsoleUserInteraction) ShowStep(ctx context.Context, message string) {
	fmt.Fprintf(u.out, "%s %s\n", color.New(color.FgCyan).Sprint("▸"), message)
}

func (u *ConsoleUserInteraction) ShowWarning(ctx context.Context, message string) {
	color.New(color.FgYellow).Fprintf(u.out, "⚠ Warning: %s\n", truncate(message, 300))
}

func (u *ConsoleUserInteraction) ShowError(ctx context.Context, message string) {
	color.New(color.FgRed).Fprintf(u.out, "❌ Error: %s\n", truncate(message, 300))
}

func (u *ConsoleUserInteraction) ShowReport(ctx context.Context, report *entity.RunReport) {
	if report == nil {
		return
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ Registration %s ━━━\n", report.State)

	dim := color.New(color.Faint)
	if report.SlotCode != "" {
		dim.Fprintf(u.out, "   Slot: %s\n", report.SlotCode)
	}
	dim.Fprintf(u.out, "   Fields filled: %d, skipped: %d\n", report.Filled(), len(report.Skipped()))
	for _, w := range report.Warnings {
		dim.Fprintf(u.out, "   - %s\n", truncate(w, 120))
	}

	summary, c := outcomeDisplay(report)
	color.New(c, color.Bold).Fprintf(u.out, "%s\n", summary)
}

func outcomeDisplay(report *entity.RunReport) (string, color.Attribute) {
	switch {
	case report.Cancelled:
		return "Submission cancelled, nothing was sent", color.FgYellow
	case report.Outcome == entity.OutcomeAccepted:
		return "✓ Registration submitted successfully", color.FgGreen
	case report.Outcome == entity.OutcomeAmbiguous:
		return "✓ Form submitted, outcome unclear: check the page", color.FgGreen
	case report.Outcome == entity.OutcomeRejected:
		return "✗ Registration rejected, check the form values", color.FgRed
	default:
		return "✗ Registration did not complete", color.FgRed
	}
}

// truncate cuts s to maxLen runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
