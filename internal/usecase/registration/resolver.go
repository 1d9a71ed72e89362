package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"registration-agent/internal/application/port/output"
	"registration-agent/internal/domain/entity"
	"registration-agent/internal/domain/errs"
)

const noProfileValue = "no value in profile"

// Resolver finds the element behind a logical field by walking the field's
// candidate locators in priority order.
type Resolver struct {
	logger output.LoggerPort
}

func NewResolver(logger output.LoggerPort) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve returns the first element matching one of the field's locators.
// Misses on individual candidates are expected; anything other than a miss
// aborts the walk.
func (r *Resolver) Resolve(ctx context.Context, session output.BrowserPort, spec entity.FieldSpec, profile entity.Profile) (output.Element, entity.Locator, error) {
	locators := spec.Locators(profile)
	for _, loc := range locators {
		el, err := session.Find(ctx, loc)
		if err == nil {
			return el, loc, nil
		}
		if !errors.Is(err, errs.ErrElementNotFound) {
			return nil, loc, fmt.Errorf("resolve %s via %s: %w", spec.Field, loc, err)
		}
		r.logger.Debug("Candidate locator missed", "field", spec.Field, "locator", loc.String())
	}

	tried := make([]string, 0, len(locators))
	for _, loc := range locators {
		tried = append(tried, loc.String())
	}
	return nil, entity.Locator{}, errs.NotFound(fmt.Sprintf("%s (tried %s)", spec.Label, strings.Join(tried, ", ")))
}

// Populate resolves the field and writes the profile's value into it. It never
// returns an error: every failure becomes a skipped FieldResult.
func (r *Resolver) Populate(ctx context.Context, session output.BrowserPort, spec entity.FieldSpec, profile entity.Profile) entity.FieldResult {
	result := entity.FieldResult{Field: spec.Field, Label: spec.Label, Status: entity.FieldSkipped}

	if spec.Skip != nil {
		if reason := spec.Skip(profile); reason != "" {
			result.Reason = reason
			return result
		}
	}

	var text string
	if spec.Kind == entity.FieldKindText {
		if spec.Text != nil {
			text = spec.Text(profile)
		}
		if text == "" {
			result.Reason = noProfileValue
			return result
		}
	}

	el, loc, err := r.Resolve(ctx, session, spec, profile)
	if err != nil {
		result.Reason = err.Error()
		return result
	}
	result.Locator = loc

	switch spec.Kind {
	case entity.FieldKindChoice:
		err = el.Click(ctx)
	default:
		err = el.Fill(ctx, text)
	}
	if err != nil {
		result.Reason = fmt.Sprintf("%s %s: %v", actionVerb(spec.Kind), loc, err)
		return result
	}

	result.Status = entity.FieldFilled
	return result
}

func actionVerb(kind entity.FieldKind) string {
	if kind == entity.FieldKindChoice {
		return "click"
	}
	return "fill"
}
