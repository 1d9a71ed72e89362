package registration

import (
	"context"
	"strings"

	"registration-agent/internal/application/port/output"
	"registration-agent/internal/domain/entity"
)

var (
	// DefaultSuccessMarkers are "success" and "complete".
	DefaultSuccessMarkers = []string{"成功", "完成"}
	// DefaultFailureMarkers are "error" and "failed".
	DefaultFailureMarkers = []string{"錯誤", "失敗"}
)

// Classifier maps post-submission page signals onto an outcome.
//
// This is a best-effort heuristic that matches marker strings, not a
// protocol-level acknowledgement. A redesign of the result page can make it
// misclassify.
type Classifier struct {
	successMarkers []string
	failureMarkers []string
	logger         output.LoggerPort
}

func NewClassifier(logger output.LoggerPort, success, failure []string) *Classifier {
	if len(success) == 0 {
		success = DefaultSuccessMarkers
	}
	if len(failure) == 0 {
		failure = DefaultFailureMarkers
	}
	return &Classifier{
		successMarkers: success,
		failureMarkers: failure,
		logger:         logger,
	}
}

// Classify checks, in order: a native dialog (always Accepted), success
// markers, failure markers. Nothing matched is Ambiguous.
func (c *Classifier) Classify(ctx context.Context, session output.BrowserPort) entity.Classification {
	if text, ok := session.TakeDialog(ctx); ok {
		c.logger.Info("Dialog observed after submission", "text", text)
		return entity.Classification{Outcome: entity.OutcomeAccepted, HadDialog: true, DialogText: text}
	}

	result := entity.Classification{URL: session.CurrentURL()}

	content, err := session.HTML(ctx)
	if err != nil {
		c.logger.Warn("Could not read page content", "error", err)
		result.Outcome = entity.OutcomeAmbiguous
		return result
	}

	switch {
	case containsAny(content, c.successMarkers):
		result.Outcome = entity.OutcomeAccepted
	case containsAny(content, c.failureMarkers):
		result.Outcome = entity.OutcomeRejected
	default:
		result.Outcome = entity.OutcomeAmbiguous
	}

	c.logger.Info("Page classified", "outcome", result.Outcome, "url", result.URL)
	return result
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}
