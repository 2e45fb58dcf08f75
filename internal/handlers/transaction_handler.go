package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Description string                 `json:"description" binding:"max=500"`
	Amount      *int64                 `json:"amount" binding:"required,min=0"`
}

// ListTransactionsRequest holds the query parameters for listing transactions.
type ListTransactionsRequest struct {
	pagination.PageRequest
	Type      string `form:"type" binding:"omitempty,transaction_type"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	MinAmount *int64 `form:"minAmount" binding:"omitempty,min=0"`
	MaxAmount *int64 `form:"maxAmount" binding:"omitempty,min=0"`
	SortBy    string `form:"sortBy" binding:"omitempty,sort_field"`
	SortOrder string `form:"sortOrder" binding:"omitempty,sort_order"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a new income or expense for the calling user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, req.Type, req.Description, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": *req.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles filtered, sorted, paginated listing
// @Summary     List transactions
// @Description List the calling user's transactions with filters, sorting, and pagination
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       type      query string false "Filter by type (income|expense)"
// @Param       startDate query string false "Inclusive lower creation-date bound"
// @Param       endDate   query string false "Inclusive upper creation-date bound"
// @Param       minAmount query int    false "Inclusive lower amount bound (cents)"
// @Param       maxAmount query int    false "Inclusive upper amount bound (cents)"
// @Param       sortBy    query string false "Sort field (createdAt|amount|type|description)"
// @Param       sortOrder query string false "Sort direction (asc|desc)"
// @Param       page      query int    false "1-indexed page number"
// @Param       limit     query int    false "Page size (default 10)"
// @Success     200 {object} map[string]interface{} "Transactions and pagination metadata"
// @Failure     400 {object} ErrorResponse "Invalid query parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		MinAmount: req.MinAmount,
		MaxAmount: req.MaxAmount,
	}
	if req.Type != "" {
		transactionType := models.TransactionType(req.Type)
		filter.Type = &transactionType
	}
	if req.StartDate != "" {
		start, parseErr := parseFlexibleTime(req.StartDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, parseErr := parseFlexibleTime(req.EndDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		filter.EndDate = &end
	}

	// Direction defaults to descending, matching the createdAt default.
	sort := services.TransactionSort{
		Field: req.SortBy,
		Desc:  req.SortOrder != "asc",
	}

	transactions, meta, err := h.transactionService.GetUserTransactions(userID, req.PageRequest, filter, sort)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   meta,
	})
}

// GetSummary handles the per-type aggregate
// @Summary     Summarize transactions
// @Description Per-type totals and counts plus derived balance for the calling user
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Summary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
