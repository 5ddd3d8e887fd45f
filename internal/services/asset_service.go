package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/models"
)

// CreateAssetInput describes an asset registration.
type CreateAssetInput struct {
	Name               string
	Description        string
	Value              float64
	Images             []string
	PurchaseDate       time.Time
	WarrantyExpiryDate *time.Time
	Type               models.AssetType
	Condition          models.AssetCondition
	Status             models.AssetStatus
	Location           string
}

// AssetService records business assets.
type AssetService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAssetService constructs an AssetService.
func NewAssetService(db *gorm.DB) (*AssetService, error) {
	if db == nil {
		return nil, errors.New("asset service: db is required")
	}
	return &AssetService{db: db, now: time.Now}, nil
}

// Create stores an asset for businessID.
func (s *AssetService) Create(ctx context.Context, businessID string, input CreateAssetInput) (*models.Asset, error) {
	purchased := input.PurchaseDate
	if purchased.IsZero() {
		purchased = s.now().UTC()
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}

	asset := &models.Asset{
		BusinessID:         businessID,
		Name:               strings.TrimSpace(input.Name),
		Description:        strings.TrimSpace(input.Description),
		Value:              input.Value,
		Images:             datatypes.JSONSlice[string](images),
		PurchaseDate:       purchased,
		WarrantyExpiryDate: input.WarrantyExpiryDate,
		Type:               input.Type,
		Condition:          input.Condition,
		Status:             input.Status,
		Location:           strings.TrimSpace(input.Location),
	}
	if asset.Type == "" {
		asset.Type = models.AssetEquipment
	}
	if asset.Condition == "" {
		asset.Condition = models.AssetConditionNew
	}
	if asset.Status == "" {
		asset.Status = models.AssetAvailable
	}

	if err := s.db.WithContext(ensureContext(ctx)).Create(asset).Error; err != nil {
		return nil, fmt.Errorf("asset service: create asset: %w", err)
	}
	return asset, nil
}

// List returns the assets of businessID, newest first.
func (s *AssetService) List(ctx context.Context, businessID string) ([]models.Asset, error) {
	var assets []models.Asset
	err := s.db.WithContext(ensureContext(ctx)).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("asset service: list assets: %w", err)
	}
	return assets, nil
}
