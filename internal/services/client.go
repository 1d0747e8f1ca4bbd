package services

import (
	"context"
	"strings"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/repository"
	"github.com/jmuseri/facturapp/validation"
)

type ClientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// ValidateClient checks a client before it is stored.
func ValidateClient(c models.Client) validation.Violations {
	v := make(validation.Violations)
	validation.CUIT("cuit", c.CUIT, v)
	if strings.TrimSpace(c.Phone) != "" {
		validation.Phone("phone", c.Phone, v)
	}
	validation.Struct(c, v)
	return v
}

func normalizeClient(c *models.Client) {
	c.Name = strings.TrimSpace(c.Name)
	c.CUIT = strings.TrimSpace(c.CUIT)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

func (s *ClientService) List(ctx context.Context, search string) ([]models.Client, error) {
	return s.repo.List(ctx, search)
}

func (s *ClientService) Get(ctx context.Context, id uint) (models.Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, c models.Client) (models.Client, error) {
	c.ID = 0
	normalizeClient(&c)
	if err := invalid(ValidateClient(c)); err != nil {
		return c, err
	}
	return c, s.repo.Create(ctx, &c)
}

// Update replaces the client's data. Invoices and schedules keep the name
// they were created with.
func (s *ClientService) Update(ctx context.Context, id uint, in models.Client) (models.Client, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return c, err
	}
	normalizeClient(&in)
	if err := invalid(ValidateClient(in)); err != nil {
		return c, err
	}
	c.Name, c.CUIT, c.Email, c.Phone, c.Address = in.Name, in.CUIT, in.Email, in.Phone, in.Address
	return c, s.repo.Update(ctx, &c)
}

// Delete removes a client no invoice or schedule refers to.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return &billing.InvalidStateError{Entity: "client", ID: id, State: "REFERENCED", Op: "delete"}
	}
	return s.repo.Delete(ctx, id)
}
