// Package services coordinates repositories, the billing rules and the
// outbound collaborators for each use case.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/repository"
	"github.com/jmuseri/facturapp/validation"
)

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// resolveClient looks up the client referenced by a draft, recording a
// violation on field when it does not exist.
func resolveClient(ctx context.Context, clients repository.ClientRepository, id uint, field string, v validation.Violations) (models.Client, error) {
	if id == 0 {
		return models.Client{}, nil
	}
	c, err := clients.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		v.Add(field, validation.CodeNotFound)
		return c, nil
	}
	return c, err
}

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &billing.ValidationError{Violations: v}
}
