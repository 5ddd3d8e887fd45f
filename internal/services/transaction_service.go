package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/corpman/internal/models"
	apperrors "github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/metrics"
)

// TransactionSettingInput configures approvals for one transaction type.
type TransactionSettingInput struct {
	RequiresApproval         bool
	NumberOfRequiredApproval int
}

// CreateTransactionInput describes a new transaction.
type CreateTransactionInput struct {
	CustomerID  string
	Amount      float64
	Type        models.TransactionType
	Description string
	MetaData    map[string]any
}

// TransactionService records transactions and drives their approval workflow.
type TransactionService struct {
	db  *gorm.DB
	now func() time.Time
}

// TransactionOption customises the TransactionService.
type TransactionOption func(*TransactionService)

// WithTransactionClock injects a custom time source.
func WithTransactionClock(clock func() time.Time) TransactionOption {
	return func(s *TransactionService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewTransactionService constructs a TransactionService.
func NewTransactionService(db *gorm.DB, opts ...TransactionOption) (*TransactionService, error) {
	if db == nil {
		return nil, errors.New("transaction service: db is required")
	}
	svc := &TransactionService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// UpsertSetting stores the approval requirements of a transaction type for a business.
func (s *TransactionService) UpsertSetting(ctx context.Context, businessID string, txType models.TransactionType, input TransactionSettingInput) (*models.TransactionTypeSetting, error) {
	if !txType.Valid() {
		return nil, apperrors.NewBadRequest("unsupported transaction type")
	}
	if input.NumberOfRequiredApproval < 0 {
		return nil, apperrors.NewBadRequest("number of required approvals cannot be negative")
	}

	setting := &models.TransactionTypeSetting{
		BusinessID:               businessID,
		Type:                     txType,
		RequiresApproval:         input.RequiresApproval,
		NumberOfRequiredApproval: input.NumberOfRequiredApproval,
	}

	err := s.db.WithContext(ensureContext(ctx)).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"requires_approval", "number_of_required_approval", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, fmt.Errorf("transaction service: upsert setting: %w", err)
	}
	return s.setting(ctx, s.db, businessID, txType)
}

// Create records a transaction. Types without an approval requirement complete immediately.
func (s *TransactionService) Create(ctx context.Context, businessID, creatorID string, input CreateTransactionInput) (*models.Transaction, error) {
	ctx = ensureContext(ctx)
	if !input.Type.Valid() {
		return nil, apperrors.NewBadRequest("unsupported transaction type")
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewBadRequest("amount must be greater than zero")
	}

	customerID := strings.TrimSpace(input.CustomerID)
	if input.Type.WalletEffect() != 0 && customerID == "" {
		return nil, apperrors.NewBadRequest("customer_id is required for this transaction type")
	}

	meta := datatypes.JSONMap{}
	for k, v := range input.MetaData {
		meta[k] = v
	}

	txn := &models.Transaction{
		BusinessID:  businessID,
		CustomerID:  optionalString(customerID),
		CreatedByID: creatorID,
		Amount:      input.Amount,
		Type:        input.Type,
		Status:      models.TransactionPending,
		Description: strings.TrimSpace(input.Description),
		MetaData:    meta,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if txn.CustomerID != nil {
			var count int64
			if err := tx.Model(&models.Customer{}).
				Where("id = ? AND business_id = ?", *txn.CustomerID, businessID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperrors.ErrCustomerNotFound
			}
		}

		setting, err := s.setting(ctx, tx, businessID, input.Type)
		if err != nil {
			return err
		}
		txn.RequiresApproval = setting.RequiresApproval
		txn.NumberOfRequiredApproval = setting.NumberOfRequiredApproval

		if err := tx.Omit("Approvals").Create(txn).Error; err != nil {
			return err
		}

		if !txn.RequiresApproval || txn.NumberOfRequiredApproval <= 0 {
			return s.complete(tx, txn)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTransactionError("create transaction", err)
	}
	return txn, nil
}

// Get loads a transaction of businessID with its approvals.
func (s *TransactionService) Get(ctx context.Context, businessID, id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.WithContext(ensureContext(ctx)).
		Preload("Approvals").
		Where("business_id = ?", businessID).
		Take(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("transaction service: load transaction: %w", err)
	}
	return &txn, nil
}

// List returns the transactions of businessID, newest first. An empty status lists all.
func (s *TransactionService) List(ctx context.Context, businessID string, status models.TransactionStatus) ([]models.Transaction, error) {
	query := s.db.WithContext(ensureContext(ctx)).Where("business_id = ?", businessID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var txns []models.Transaction
	if err := query.Order("created_at DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("transaction service: list transactions: %w", err)
	}
	return txns, nil
}

// Approve records approverID's approval and completes the transaction once
// the required number of distinct approvals is reached.
func (s *TransactionService) Approve(ctx context.Context, businessID, id, approverID string) (*models.Transaction, error) {
	ctx = ensureContext(ctx)
	var txn models.Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("business_id = ?", businessID).
			Take(&txn, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		if err != nil {
			return err
		}
		if txn.Status != models.TransactionPending {
			return apperrors.ErrTransactionNotPending
		}

		var existing int64
		if err := tx.Model(&models.TransactionApproval{}).
			Where("transaction_id = ? AND account_id = ?", txn.ID, approverID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.ErrAlreadyApproved
		}

		approval := &models.TransactionApproval{TransactionID: txn.ID, AccountID: approverID}
		if err := tx.Create(approval).Error; err != nil {
			return translateWriteError(err, apperrors.ErrAlreadyApproved, "transaction service: record approval")
		}

		var approvals int64
		if err := tx.Model(&models.TransactionApproval{}).
			Where("transaction_id = ?", txn.ID).
			Count(&approvals).Error; err != nil {
			return err
		}
		if approvals >= int64(txn.NumberOfRequiredApproval) {
			return s.complete(tx, &txn)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTransactionError("approve transaction", err)
	}

	return s.Get(ctx, businessID, txn.ID)
}

func (s *TransactionService) setting(ctx context.Context, db *gorm.DB, businessID string, txType models.TransactionType) (*models.TransactionTypeSetting, error) {
	var setting models.TransactionTypeSetting
	err := db.WithContext(ctx).
		Where("business_id = ? AND type = ?", businessID, txType).
		Take(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.TransactionTypeSetting{BusinessID: businessID, Type: txType}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("transaction service: load setting: %w", err)
	}
	return &setting, nil
}

// complete marks txn completed and applies its ledger effects within tx.
func (s *TransactionService) complete(tx *gorm.DB, txn *models.Transaction) error {
	completedAt := s.now().UTC()
	result := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", txn.ID, models.TransactionPending).
		Updates(map[string]any{"status": models.TransactionCompleted, "completed_at": completedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotPending
	}
	txn.Status = models.TransactionCompleted
	txn.CompletedAt = &completedAt

	if txn.CustomerID != nil {
		column := ""
		switch txn.Type.WalletEffect() {
		case 1:
			column = "credit"
		case -1:
			column = "debit"
		}
		if column != "" {
			if err := tx.Model(&models.Wallet{}).
				Where("customer_id = ?", *txn.CustomerID).
				UpdateColumn(column, gorm.Expr(column+" + ?", txn.Amount)).Error; err != nil {
				return err
			}
		}
	}

	if txn.Type == models.TransactionUserContribution {
		id := txn.ID
		contribution := &models.Contribution{
			AccountID:     txn.CreatedByID,
			TransactionID: &id,
			Credit:        txn.Amount,
		}
		if err := tx.Create(contribution).Error; err != nil {
			return err
		}
	}

	metrics.TransactionsCompleted.WithLabelValues(string(txn.Type)).Inc()
	return nil
}

func wrapTransactionError(op string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return fmt.Errorf("transaction service: %s: %w", op, err)
}
