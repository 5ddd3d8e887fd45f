package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/models"
	apperrors "github.com/charlesng35/corpman/pkg/errors"
)

// CreateBusinessInput describes a business registration.
type CreateBusinessInput struct {
	Name           string
	Address        string
	Phone          string
	Email          string
	LogoURL        string
	Type           string
	Nature         string
	Website        string
	RegistrationNo string
	CertificateURL string
	Modules        []string
}

// BusinessService manages businesses and the accounts linked to them.
type BusinessService struct {
	db *gorm.DB
}

// NewBusinessService constructs a BusinessService.
func NewBusinessService(db *gorm.DB) (*BusinessService, error) {
	if db == nil {
		return nil, errors.New("business service: db is required")
	}
	return &BusinessService{db: db}, nil
}

// Create registers a business with default preferences and links it to the account.
func (s *BusinessService) Create(ctx context.Context, accountID string, input CreateBusinessInput) (*models.Business, error) {
	ctx = ensureContext(ctx)

	business := &models.Business{
		Name:           strings.TrimSpace(input.Name),
		Address:        strings.TrimSpace(input.Address),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          models.NormaliseEmail(input.Email),
		LogoURL:        strings.TrimSpace(input.LogoURL),
		Type:           strings.TrimSpace(input.Type),
		Nature:         strings.TrimSpace(input.Nature),
		Website:        strings.TrimSpace(input.Website),
		RegistrationNo: strings.TrimSpace(input.RegistrationNo),
		CertificateURL: strings.TrimSpace(input.CertificateURL),
		Modules:        datatypes.JSONSlice[string](normaliseModules(input.Modules)),
		KYCStatus:      models.KYCPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(business).Error; err != nil {
			return fmt.Errorf("create business: %w", err)
		}

		prefs := &models.BusinessPreference{BusinessID: business.ID}
		if err := tx.Create(prefs).Error; err != nil {
			return fmt.Errorf("create business preferences: %w", err)
		}
		business.Preferences = prefs

		result := tx.Model(&models.Account{}).
			Where("uid = ? AND business_id IS NULL", accountID).
			Update("business_id", business.ID)
		if result.Error != nil {
			return fmt.Errorf("link account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Account{}).Where("uid = ?", accountID).Count(&count).Error; err != nil {
				return fmt.Errorf("load account: %w", err)
			}
			if count == 0 {
				return apperrors.ErrUserNotFound
			}
			return apperrors.ErrBusinessAlreadyLinked
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("business service: %w", err)
	}

	return business, nil
}

// Get loads a business with its preferences.
func (s *BusinessService) Get(ctx context.Context, id string) (*models.Business, error) {
	var business models.Business
	err := s.db.WithContext(ensureContext(ctx)).
		Preload("Preferences").
		Take(&business, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound.WithMessage("Business not found")
	}
	if err != nil {
		return nil, fmt.Errorf("business service: load business: %w", err)
	}
	return &business, nil
}

// ForAccount returns the business linked to account.
func (s *BusinessService) ForAccount(ctx context.Context, account *models.Account) (*models.Business, error) {
	id, err := RequireBusiness(account)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// RequireBusiness returns the business id of account or ErrBusinessRequired.
func RequireBusiness(account *models.Account) (string, error) {
	if account == nil || account.BusinessID == nil || *account.BusinessID == "" {
		return "", apperrors.ErrBusinessRequired
	}
	return *account.BusinessID, nil
}

func normaliseModules(modules []string) []string {
	out := make([]string, 0, len(modules))
	seen := make(map[string]struct{}, len(modules))
	for _, module := range modules {
		module = strings.ToLower(strings.TrimSpace(module))
		if module == "" {
			continue
		}
		if _, ok := seen[module]; ok {
			continue
		}
		seen[module] = struct{}{}
		out = append(out, module)
	}
	return out
}
