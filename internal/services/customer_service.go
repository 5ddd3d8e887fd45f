package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/models"
	apperrors "github.com/charlesng35/corpman/pkg/errors"
)

// CreateCustomerInput describes a new customer of a business.
type CreateCustomerInput struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	ImageURL         string
	Address          string
	PaymentFrequency models.PaymentFrequency
	NextPaymentDate  *time.Time
}

// CustomerService manages customers and their wallets.
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(db *gorm.DB) (*CustomerService, error) {
	if db == nil {
		return nil, errors.New("customer service: db is required")
	}
	return &CustomerService{db: db}, nil
}

// Create stores a customer together with an empty wallet.
func (s *CustomerService) Create(ctx context.Context, businessID string, input CreateCustomerInput) (*models.Customer, error) {
	frequency := input.PaymentFrequency
	if frequency == "" {
		frequency = models.PaymentMonthly
	}
	if !frequency.Valid() {
		return nil, apperrors.NewBadRequest("unsupported payment frequency")
	}

	customer := &models.Customer{
		BusinessID:       businessID,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Email:            models.NormaliseEmail(input.Email),
		Phone:            strings.TrimSpace(input.Phone),
		ImageURL:         strings.TrimSpace(input.ImageURL),
		Address:          strings.TrimSpace(input.Address),
		PaymentFrequency: frequency,
		NextPaymentDate:  input.NextPaymentDate,
	}

	err := s.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Wallet").Create(customer).Error; err != nil {
			return err
		}
		wallet := &models.Wallet{CustomerID: customer.ID}
		if err := tx.Create(wallet).Error; err != nil {
			return err
		}
		customer.Wallet = wallet
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("customer service: create customer: %w", err)
	}
	return customer, nil
}

// Get loads a customer of businessID with its wallet.
func (s *CustomerService) Get(ctx context.Context, businessID, id string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ensureContext(ctx)).
		Preload("Wallet").
		Where("business_id = ?", businessID).
		Take(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer service: load customer: %w", err)
	}
	return &customer, nil
}

// List returns the customers of businessID, newest first.
func (s *CustomerService) List(ctx context.Context, businessID string) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ensureContext(ctx)).
		Preload("Wallet").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("customer service: list customers: %w", err)
	}
	return customers, nil
}
