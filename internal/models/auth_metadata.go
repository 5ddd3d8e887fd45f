package models

import "time"

// AuthMetaData records a successful login.
type AuthMetaData struct {
	BaseModel

	AccountID string    `gorm:"type:uuid;not null;index" json:"account_id"`
	DeviceIP  string    `gorm:"size:64" json:"device_ip"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	Method    string    `gorm:"size:32" json:"method"`
	LoginTime time.Time `gorm:"index;not null" json:"login_time"`
}

// TableName keeps login records in the auth_meta_data table.
func (AuthMetaData) TableName() string {
	return "auth_meta_data"
}
