package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/response"
)

// BusinessHandler exposes business registration and lookup.
type BusinessHandler struct {
	svc *services.BusinessService
}

// NewBusinessHandler constructs a BusinessHandler.
func NewBusinessHandler(svc *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{svc: svc}
}

type createBusinessRequest struct {
	Name           string   `json:"business_name" validate:"required,max=120"`
	Address        string   `json:"business_address" validate:"omitempty,max=255"`
	Phone          string   `json:"business_phone" validate:"required,max=32,phone"`
	Email          string   `json:"business_email" validate:"omitempty,email"`
	LogoURL        string   `json:"logo_url" validate:"omitempty,url"`
	Type           string   `json:"business_type" validate:"omitempty,max=64"`
	Nature         string   `json:"business_nature" validate:"omitempty,max=64"`
	Website        string   `json:"business_website" validate:"omitempty,url"`
	RegistrationNo string   `json:"business_reg_no" validate:"omitempty,max=64"`
	CertificateURL string   `json:"certificate_url" validate:"omitempty,url"`
	Modules        []string `json:"modules"`
}

// POST /api/v1/businesses
func (h *BusinessHandler) Create(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	var req createBusinessRequest
	if !bindAndValidate(c, &req) {
		return
	}

	business, err := h.svc.Create(requestContext(c), account.ID, services.CreateBusinessInput{
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		LogoURL:        req.LogoURL,
		Type:           req.Type,
		Nature:         req.Nature,
		Website:        req.Website,
		RegistrationNo: req.RegistrationNo,
		CertificateURL: req.CertificateURL,
		Modules:        req.Modules,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Business created successfully", business)
}

// GET /api/v1/businesses/me
func (h *BusinessHandler) Mine(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	business, err := h.svc.ForAccount(requestContext(c), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, business)
}
