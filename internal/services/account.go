package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/repository"
	"github.com/jmuseri/facturapp/validation"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Categories are the monotributo categories.
var Categories = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}

type AccountService struct {
	users repository.UserRepository
	plans repository.PlanRepository
	cost  int
}

func NewAccountService(users repository.UserRepository, plans repository.PlanRepository) *AccountService {
	return &AccountService{users: users, plans: plans, cost: bcrypt.DefaultCost}
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a user with an empty fiscal profile.
func (s *AccountService) Register(ctx context.Context, in Registration) (models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	v := make(validation.Violations)
	validation.Struct(in, v)
	passwordRules("password", in.Password, v)
	if _, err := s.users.ByEmail(ctx, in.Email); err == nil {
		v.Add("email", validation.CodeTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return models.User{}, err
	}
	if err := invalid(v); err != nil {
		return models.User{}, err
	}

	hash, err := HashPassword(in.Password, s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Fiscal:   &models.FiscalProfile{PuntoVenta: 1, AnnualLimit: decimal.Zero},
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return u, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login checks an email and password pair.
func (s *AccountService) Login(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return u, ErrInvalidCredentials
	}
	if err != nil {
		return u, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AccountService) Me(ctx context.Context, id uint) (models.User, error) {
	return s.users.Get(ctx, id)
}

// Exists reports whether the user still exists.
func (s *AccountService) Exists(ctx context.Context, id uint) bool {
	return s.users.Exists(ctx, id)
}

type ProfileInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (s *AccountService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (models.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return u, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	v := make(validation.Violations)
	validation.Struct(in, v)
	if in.Email != "" && in.Email != u.Email {
		if other, err := s.users.ByEmail(ctx, in.Email); err == nil && other.ID != u.ID {
			v.Add("email", validation.CodeTaken)
		}
	}
	if err := invalid(v); err != nil {
		return u, err
	}
	u.Name, u.Email = in.Name, in.Email
	return u, s.users.Save(ctx, &u)
}

type FiscalInput struct {
	CUIT          string          `json:"cuit"`
	Category      string          `json:"category"`
	FiscalAddress string          `json:"fiscal_address"`
	PuntoVenta    int             `json:"punto_venta"`
	AnnualLimit   decimal.Decimal `json:"annual_limit"`
}

func (s *AccountService) UpdateFiscal(ctx context.Context, id uint, in FiscalInput) (models.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return u, err
	}
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	v := make(validation.Violations)
	validation.CUIT("cuit", strings.TrimSpace(in.CUIT), v)
	if !slices.Contains(Categories, in.Category) {
		v.Add("category", validation.CodeInvalidChoice)
	}
	validation.Required("fiscal_address", in.FiscalAddress, v)
	if in.PuntoVenta < 1 {
		v.Add("punto_venta", validation.CodeMustBePositive)
	}
	validation.NonNegative("annual_limit", in.AnnualLimit, v)
	if err := invalid(v); err != nil {
		return u, err
	}

	f := u.Fiscal
	if f == nil {
		f = &models.FiscalProfile{UserID: u.ID}
	}
	f.CUIT = strings.TrimSpace(in.CUIT)
	f.Category = in.Category
	f.FiscalAddress = strings.TrimSpace(in.FiscalAddress)
	f.PuntoVenta = in.PuntoVenta
	f.AnnualLimit = in.AnnualLimit
	if err := s.users.SaveFiscal(ctx, f); err != nil {
		return u, fmt.Errorf("save fiscal profile: %w", err)
	}
	u.Fiscal = f
	return u, nil
}

type PasswordChange struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
	Confirm string `json:"confirm_password"`
}

func (s *AccountService) ChangePassword(ctx context.Context, id uint, in PasswordChange) error {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	v := make(validation.Violations)
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Current)) != nil {
		v.Add("current_password", validation.CodeInvalid)
	}
	passwordRules("new_password", in.New, v)
	if in.New != in.Confirm {
		v.Add("confirm_password", validation.CodeMismatch)
	}
	if err := invalid(v); err != nil {
		return err
	}
	hash, err := HashPassword(in.New, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	return s.users.Save(ctx, &u)
}

func (s *AccountService) Plans(ctx context.Context) ([]models.Plan, error) {
	return s.plans.List(ctx)
}

func passwordRules(field, password string, v validation.Violations) {
	switch {
	case password == "":
		v.Add(field, validation.CodeRequired)
	case len(password) < MinPasswordLength:
		v.Add(field, validation.CodeTooShort)
	}
}
