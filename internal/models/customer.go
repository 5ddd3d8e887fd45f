package models

import "time"

// Customer is a client of a business. Each customer owns exactly one wallet.
type Customer struct {
	BaseModel

	BusinessID       string           `gorm:"type:uuid;not null;index" json:"business_id"`
	FirstName        string           `gorm:"not null" json:"first_name"`
	LastName         string           `json:"last_name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	ImageURL         string           `json:"image_url"`
	Address          string           `json:"address"`
	PaymentFrequency PaymentFrequency `gorm:"size:16;not null;default:monthly" json:"payment_frequency"`
	NextPaymentDate  *time.Time       `json:"next_payment_date"`

	Wallet *Wallet `gorm:"foreignKey:CustomerID" json:"wallet,omitempty"`
}

// Wallet accumulates the credits and debits applied to a customer.
type Wallet struct {
	BaseModel

	CustomerID string  `gorm:"type:uuid;not null;uniqueIndex" json:"customer_id"`
	Debit      float64 `gorm:"not null;default:0" json:"debit"`
	Credit     float64 `gorm:"not null;default:0" json:"credit"`
}

// Balance returns credit minus debit.
func (w Wallet) Balance() float64 {
	return w.Credit - w.Debit
}

// Contribution is a ledger line recorded against an account.
type Contribution struct {
	BaseModel

	AccountID     string  `gorm:"type:uuid;not null;index" json:"user_id"`
	TransactionID *string `gorm:"type:uuid;index" json:"transaction_id"`
	Debit         float64 `gorm:"not null;default:0" json:"debit"`
	Credit        float64 `gorm:"not null;default:0" json:"credit"`
}
