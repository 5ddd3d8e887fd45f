package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/response"
)

// AssetHandler exposes assets of the caller's business.
type AssetHandler struct {
	svc *services.AssetService
}

// NewAssetHandler constructs an AssetHandler.
func NewAssetHandler(svc *services.AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

type createAssetRequest struct {
	Name               string     `json:"name" validate:"required,max=120"`
	Description        string     `json:"description" validate:"omitempty,max=1000"`
	Value              float64    `json:"value" validate:"gte=0"`
	Images             []string   `json:"images" validate:"omitempty,dive,url"`
	PurchaseDate       time.Time  `json:"purchase_date"`
	WarrantyExpiryDate *time.Time `json:"warranty_expiry_date"`
	Type               string     `json:"asset_type" validate:"omitempty,oneof=equipment vehicle furniture electronics landed_property other"`
	Condition          string     `json:"asset_condition" validate:"omitempty,oneof=new used refurbished damaged other"`
	Status             string     `json:"asset_status" validate:"omitempty,max=32"`
	Location           string     `json:"asset_location" validate:"omitempty,max=255"`
}

// POST /api/v1/assets
func (h *AssetHandler) Create(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	var req createAssetRequest
	if !bindAndValidate(c, &req) {
		return
	}

	asset, err := h.svc.Create(requestContext(c), businessID, services.CreateAssetInput{
		Name:               req.Name,
		Description:        req.Description,
		Value:              req.Value,
		Images:             req.Images,
		PurchaseDate:       req.PurchaseDate,
		WarrantyExpiryDate: req.WarrantyExpiryDate,
		Type:               models.AssetType(req.Type),
		Condition:          models.AssetCondition(req.Condition),
		Status:             models.AssetStatus(req.Status),
		Location:           req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Asset created successfully", asset)
}

// GET /api/v1/assets
func (h *AssetHandler) List(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	assets, err := h.svc.List(requestContext(c), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, assets)
}
