package models

// Role enumerates the account roles understood by the role checker.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleRoot  Role = "root"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleRoot:
		return true
	}
	return false
}

// TwoFactorOption identifies the second factor an account prefers.
type TwoFactorOption string

const (
	TwoFactorSMS           TwoFactorOption = "sms"
	TwoFactorEmail         TwoFactorOption = "email"
	TwoFactorAuthenticator TwoFactorOption = "authenticator"
	TwoFactorNone          TwoFactorOption = "none"
)

// BusinessKYCStatus tracks the know-your-customer review of a business.
type BusinessKYCStatus string

const (
	KYCPending  BusinessKYCStatus = "pending"
	KYCApproved BusinessKYCStatus = "approved"
	KYCRejected BusinessKYCStatus = "rejected"
)

// PaymentFrequency is how often a customer is expected to pay.
type PaymentFrequency string

const (
	PaymentDaily    PaymentFrequency = "daily"
	PaymentWeekly   PaymentFrequency = "weekly"
	PaymentBiweekly PaymentFrequency = "bi-weekly"
	PaymentMonthly  PaymentFrequency = "monthly"
)

// Valid reports whether f is a known payment frequency.
func (f PaymentFrequency) Valid() bool {
	switch f {
	case PaymentDaily, PaymentWeekly, PaymentBiweekly, PaymentMonthly:
		return true
	}
	return false
}

type AssetType string

const (
	AssetEquipment      AssetType = "equipment"
	AssetVehicle        AssetType = "vehicle"
	AssetFurniture      AssetType = "furniture"
	AssetElectronics    AssetType = "electronics"
	AssetLandedProperty AssetType = "landed_property"
	AssetTypeOther      AssetType = "other"
)

type AssetCondition string

const (
	AssetConditionNew         AssetCondition = "new"
	AssetConditionUsed        AssetCondition = "used"
	AssetConditionRefurbished AssetCondition = "refurbished"
	AssetConditionDamaged     AssetCondition = "damaged"
	AssetConditionOther       AssetCondition = "other"
)

type AssetStatus string

const (
	AssetAvailable        AssetStatus = "available"
	AssetInUse            AssetStatus = "in_use"
	AssetLeased           AssetStatus = "leased"
	AssetUnderMaintenance AssetStatus = "under_maintenance"
	AssetRetired          AssetStatus = "retired"
	AssetStatusOther      AssetStatus = "other"
)

// TransactionType classifies money movements recorded for a business.
type TransactionType string

const (
	TransactionCustomerDeposit  TransactionType = "customer_deposit"
	TransactionUserContribution TransactionType = "user_contribution"
	TransactionPayout           TransactionType = "payout"
	TransactionLoanOut          TransactionType = "loan_out"
	TransactionLoanRepayment    TransactionType = "loan_repayment"
	TransactionExpense          TransactionType = "expense"
	TransactionIncome           TransactionType = "income"
)

// TransactionTypes lists every known transaction type.
var TransactionTypes = []TransactionType{
	TransactionCustomerDeposit,
	TransactionUserContribution,
	TransactionPayout,
	TransactionLoanOut,
	TransactionLoanRepayment,
	TransactionExpense,
	TransactionIncome,
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// WalletEffect returns +1 when the type credits a customer wallet, -1 when it
// debits it and 0 when wallets are unaffected.
func (t TransactionType) WalletEffect() int {
	switch t {
	case TransactionCustomerDeposit, TransactionLoanRepayment:
		return 1
	case TransactionPayout, TransactionLoanOut:
		return -1
	}
	return 0
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFlagged   TransactionStatus = "flagged"
	TransactionFailed    TransactionStatus = "failed"
	TransactionRefunded  TransactionStatus = "refunded"
	TransactionCancelled TransactionStatus = "cancelled"
	TransactionOther     TransactionStatus = "other"
)
