package models

import (
	"time"

	"gorm.io/datatypes"
)

// Asset is a physical or property holding of a business.
type Asset struct {
	BaseModel

	BusinessID         string                      `gorm:"type:uuid;not null;index" json:"business_id"`
	Name               string                      `gorm:"not null" json:"name"`
	Description        string                      `json:"description"`
	Value              float64                     `gorm:"not null;default:0" json:"value"`
	Images             datatypes.JSONSlice[string] `json:"images"`
	PurchaseDate       time.Time                   `json:"purchase_date"`
	WarrantyExpiryDate *time.Time                  `json:"warranty_expiry_date"`
	Type               AssetType                   `gorm:"size:32;not null;default:equipment" json:"asset_type"`
	Condition          AssetCondition              `gorm:"size:16;not null;default:new" json:"asset_condition"`
	Status             AssetStatus                 `gorm:"size:32;not null;default:available" json:"asset_status"`
	Location           string                      `json:"asset_location"`
}
