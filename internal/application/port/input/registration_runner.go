package input

import (
	"context"

	"registration-agent/internal/domain/entity"
)

type RegistrationRunner interface {
	Run(ctx context.Context, profile entity.Profile) (*entity.RunReport, error)
}
