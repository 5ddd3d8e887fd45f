package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/pkg/crypto"
	"github.com/charlesng35/corpman/pkg/metrics"
)

const (
	defaultVerificationExpiry     = 30 * time.Minute
	defaultVerificationCodeLength = 6
)

// VerificationOption customises the VerificationService.
type VerificationOption func(*VerificationService)

// WithVerificationExpiry overrides the code lifetime.
func WithVerificationExpiry(d time.Duration) VerificationOption {
	return func(s *VerificationService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithVerificationCodeLength adjusts the number of digits in generated codes.
func WithVerificationCodeLength(n int) VerificationOption {
	return func(s *VerificationService) {
		if n > 0 {
			s.codeLength = n
		}
	}
}

// WithVerificationClock injects a custom time source.
func WithVerificationClock(clock func() time.Time) VerificationOption {
	return func(s *VerificationService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// VerificationService issues and consumes numeric codes keyed by an email address or phone number.
type VerificationService struct {
	db         *gorm.DB
	expiry     time.Duration
	codeLength int
	now        func() time.Time
}

// NewVerificationService constructs a verification service with the provided dependencies.
func NewVerificationService(db *gorm.DB, opts ...VerificationOption) (*VerificationService, error) {
	if db == nil {
		return nil, errors.New("verification service: db is required")
	}

	service := &VerificationService{
		db:         db,
		expiry:     defaultVerificationExpiry,
		codeLength: defaultVerificationCodeLength,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Issue generates a fresh code for identifier, replacing any previous one.
func (s *VerificationService) Issue(ctx context.Context, identifier string) (string, error) {
	ctx = ensureContext(ctx)
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", errors.New("verification service: identifier is required")
	}

	code, err := crypto.GenerateNumericCode(s.codeLength)
	if err != nil {
		return "", fmt.Errorf("verification service: generate code: %w", err)
	}

	now := s.now()
	row := models.VerificationToken{
		Identifier: identifier,
		Code:       code,
		IsActive:   true,
		Expiry:     now.Add(s.expiry),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identifier"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "is_active", "expiry", "updated_at"}),
		}).Create(&row).Error
	if err != nil {
		metrics.VerificationCodes.WithLabelValues("issue", "error").Inc()
		return "", fmt.Errorf("verification service: store code: %w", err)
	}

	metrics.VerificationCodes.WithLabelValues("issue", "success").Inc()
	return code, nil
}

// Consume reports whether code is the active, unexpired code for identifier and
// deactivates it. A code is accepted at most once.
func (s *VerificationService) Consume(ctx context.Context, identifier, code string) (bool, error) {
	ctx = ensureContext(ctx)
	identifier = strings.TrimSpace(identifier)
	code = strings.TrimSpace(code)
	if identifier == "" || code == "" {
		return false, nil
	}

	result := s.db.WithContext(ctx).
		Model(&models.VerificationToken{}).
		Where("identifier = ? AND code = ? AND is_active = ? AND expiry >= ?", identifier, code, true, s.now()).
		Update("is_active", false)
	if result.Error != nil {
		metrics.VerificationCodes.WithLabelValues("consume", "error").Inc()
		return false, fmt.Errorf("verification service: consume code: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		metrics.VerificationCodes.WithLabelValues("consume", "rejected").Inc()
		return false, nil
	}

	metrics.VerificationCodes.WithLabelValues("consume", "success").Inc()
	return true, nil
}
