package models

import "gorm.io/datatypes"

// AppModule is a feature module businesses can enable.
type AppModule struct {
	BaseModel

	Name        string                      `gorm:"uniqueIndex;not null" json:"name"`
	Description string                      `json:"description"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`
	IsActive    bool                        `gorm:"default:true" json:"is_active"`
}

// AppConfig is a named platform-wide setting.
type AppConfig struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Value       string `gorm:"not null" json:"value"`
	Description string `json:"description"`
}

// TableName keeps settings in the app_config table.
func (AppConfig) TableName() string {
	return "app_config"
}
