package models

import "gorm.io/datatypes"

// Business is the tenant every customer, asset and transaction belongs to.
type Business struct {
	BaseModel

	Name           string                      `gorm:"not null" json:"business_name"`
	Address        string                      `json:"business_address"`
	Phone          string                      `gorm:"not null" json:"business_phone"`
	Email          string                      `json:"business_email"`
	LogoURL        string                      `json:"logo_url"`
	Type           string                      `json:"business_type"`
	Nature         string                      `json:"business_nature"`
	Website        string                      `json:"business_website"`
	RegistrationNo string                      `json:"business_reg_no"`
	CertificateURL string                      `json:"certificate_url"`
	Modules        datatypes.JSONSlice[string] `json:"modules"`
	KYCStatus      BusinessKYCStatus           `gorm:"size:16;not null;default:pending" json:"business_kyc_status"`

	Preferences *BusinessPreference `gorm:"foreignKey:BusinessID" json:"preferences,omitempty"`
	Users       []Account           `gorm:"foreignKey:BusinessID" json:"-"`
}

// BusinessPreference holds per-business notification and security preferences.
type BusinessPreference struct {
	BaseModel

	BusinessID        string `gorm:"type:uuid;not null;uniqueIndex" json:"business_id"`
	SMSNotification   bool   `gorm:"default:false" json:"sms_notification"`
	SMSID             string `json:"sms_id"`
	EmailNotification bool   `gorm:"default:false" json:"email_notification"`
	RequireTwoFactor  bool   `gorm:"default:false" json:"require_two_factor"`
}
