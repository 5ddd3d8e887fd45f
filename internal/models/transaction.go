package models

import (
	"time"

	"gorm.io/datatypes"
)

// TransactionTypeSetting configures approval requirements per business and type.
type TransactionTypeSetting struct {
	ID                       uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID               string          `gorm:"type:uuid;not null;uniqueIndex:idx_tx_setting_business_type" json:"business_id"`
	Type                     TransactionType `gorm:"size:32;not null;uniqueIndex:idx_tx_setting_business_type" json:"type"`
	RequiresApproval         bool            `gorm:"not null;default:false" json:"requires_approval"`
	NumberOfRequiredApproval int             `gorm:"not null;default:0" json:"number_of_required_approval"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// TableName keeps settings in the transaction_types_setting table.
func (TransactionTypeSetting) TableName() string {
	return "transaction_types_setting"
}

// Transaction is a money movement of a business, optionally gated by approvals.
type Transaction struct {
	BaseModel

	BusinessID               string            `gorm:"type:uuid;not null;index" json:"business_id"`
	CustomerID               *string           `gorm:"type:uuid;index" json:"customer_id"`
	CreatedByID              string            `gorm:"type:uuid;not null" json:"created_by"`
	Amount                   float64           `gorm:"not null" json:"amount"`
	Type                     TransactionType   `gorm:"column:transaction_type;size:32;not null" json:"transaction_type"`
	Status                   TransactionStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	Description              string            `json:"description"`
	MetaData                 datatypes.JSONMap `json:"meta_data"`
	RequiresApproval         bool              `gorm:"not null;default:false" json:"requires_approval"`
	NumberOfRequiredApproval int               `gorm:"not null;default:0" json:"number_of_required_approval"`
	CompletedAt              *time.Time        `json:"completed_at"`

	Approvals []TransactionApproval `gorm:"foreignKey:TransactionID" json:"approvals"`
}

// TransactionApproval records one approver's sign-off on a transaction.
type TransactionApproval struct {
	BaseModel

	TransactionID string `gorm:"type:uuid;not null;uniqueIndex:idx_tx_approval_approver" json:"transaction_id"`
	AccountID     string `gorm:"type:uuid;not null;uniqueIndex:idx_tx_approval_approver" json:"user_id"`
}
