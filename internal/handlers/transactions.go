package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/response"
)

// TransactionHandler exposes transactions, their approval settings and approvals.
type TransactionHandler struct {
	svc *services.TransactionService
}

// NewTransactionHandler constructs a TransactionHandler.
func NewTransactionHandler(svc *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type transactionSettingRequest struct {
	RequiresApproval         bool `json:"requires_approval"`
	NumberOfRequiredApproval int  `json:"number_of_required_approval" validate:"gte=0,lte=20"`
}

type createTransactionRequest struct {
	CustomerID  string         `json:"customer_id" validate:"omitempty,uuid"`
	Amount      float64        `json:"amount" validate:"required,gt=0"`
	Type        string         `json:"transaction_type" validate:"required"`
	Description string         `json:"description" validate:"omitempty,max=500"`
	MetaData    map[string]any `json:"meta_data"`
}

// PUT /api/v1/transactions/settings/:type
func (h *TransactionHandler) UpsertSetting(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	var req transactionSettingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	setting, err := h.svc.UpsertSetting(requestContext(c), businessID, models.TransactionType(c.Param("type")), services.TransactionSettingInput{
		RequiresApproval:         req.RequiresApproval,
		NumberOfRequiredApproval: req.NumberOfRequiredApproval,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, setting)
}

// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	account, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	var req createTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	txn, err := h.svc.Create(requestContext(c), businessID, account.ID, services.CreateTransactionInput{
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		Description: req.Description,
		MetaData:    req.MetaData,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Transaction recorded", txn)
}

// GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	txns, err := h.svc.List(requestContext(c), businessID, models.TransactionStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, txns)
}

// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	_, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	txn, err := h.svc.Get(requestContext(c), businessID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, txn)
}

// POST /api/v1/transactions/:id/approve
func (h *TransactionHandler) Approve(c *gin.Context) {
	account, businessID, ok := currentBusiness(c)
	if !ok {
		return
	}

	txn, err := h.svc.Approve(requestContext(c), businessID, c.Param("id"), account.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Approval recorded", txn)
}
