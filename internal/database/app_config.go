package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/models"
)

// GetAppConfig retrieves a platform setting by name. Returns an empty string when not found.
func GetAppConfig(ctx context.Context, db *gorm.DB, name string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("app config: db is nil")
	}

	var setting models.AppConfig
	err := db.WithContext(ctx).Take(&setting, "name = ?", name).Error
	if err == nil {
		return setting.Value, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return "", fmt.Errorf("app config: get %q: %w", name, err)
}

// UpsertAppConfig stores or updates a platform setting value.
func UpsertAppConfig(ctx context.Context, db *gorm.DB, name, value string) error {
	if db == nil {
		return fmt.Errorf("app config: db is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("app config: name is required")
	}

	record := models.AppConfig{
		Name:  name,
		Value: value,
	}

	if err := db.WithContext(ctx).
		Where("name = ?", name).
		Assign(map[string]any{"value": value}).
		FirstOrCreate(&record).Error; err != nil {
		return fmt.Errorf("app config: upsert %q: %w", name, err)
	}

	return nil
}
