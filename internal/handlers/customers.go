package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/response"
)

// CustomerHandler exposes customers of the caller's business.
type CustomerHandler struct {
	svc *services.CustomerService
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(svc *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

type createCustomerRequest struct {
	FirstName        string     `json:"first_name" validate:"required,max=64"`
	LastName         string     `json:"last_name" validate:"omitempty,max=64"`
	Email            string     `json:"email" validate:"omitempty,email"`
	Phone            string     `json:"phone" validate:"omitempty,max=32,phone"`
	ImageURL         string     `json:"image_url" validate:"omitempty,url"`
	Address          string     `json:"address" validate:"omitempty,max=255"`
	PaymentFrequency string     `json:"payment_frequency" validate:"omitempty,oneof=daily weekly bi-weekly monthly"`
	NextPaymentDate  *time.Time `json:"next_payment_date"`
}

// POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	var req createCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	customer, err := h.svc.Create(requestContext(c), businessID, services.CreateCustomerInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		ImageURL:         req.ImageURL,
		Address:          req.Address,
		PaymentFrequency: models.PaymentFrequency(req.PaymentFrequency),
		NextPaymentDate:  req.NextPaymentDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Customer created successfully", customer)
}

// GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	customers, err := h.svc.List(requestContext(c), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, customers)
}

// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	customer, err := h.svc.Get(requestContext(c), businessID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, customer)
}
