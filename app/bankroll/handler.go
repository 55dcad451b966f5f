package bankroll

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddsline/vigor/app/api"
	"github.com/oddsline/vigor/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	account, err := h.service.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrAccountAlreadyExists) {
			api.ConflictResponse(c, err.Error())
			return
		}
		if errors.Is(err, models.ErrInvalidStartingAmount) {
			api.BadRequestResponse(c, err.Error())
			return
		}
		api.InternalErrorResponse(c, "Failed to create bankroll account")
		return
	}

	api.CreatedResponse(c, "Bankroll account created successfully", account)
}

func (h *Handler) GetStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			api.NotFoundResponse(c, "Bankroll account")
			return
		}
		api.InternalErrorResponse(c, "Failed to get bankroll status")
		return
	}

	api.SuccessResponse(c, 200, "Bankroll status retrieved successfully", status)
}

func (h *Handler) Deposit(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.Deposit(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			api.NotFoundResponse(c, "Bankroll account")
		case errors.Is(err, models.ErrInvalidTransactionAmount):
			api.BadRequestResponse(c, "Deposit amount must be positive")
		default:
			api.InternalErrorResponse(c, "Failed to deposit")
		}
		return
	}

	api.SuccessResponse(c, 200, "Deposit applied successfully", result)
}

func (h *Handler) Withdraw(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.Withdraw(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			api.NotFoundResponse(c, "Bankroll account")
		case errors.Is(err, models.ErrInvalidTransactionAmount):
			api.BadRequestResponse(c, "Withdrawal amount must be positive")
		case errors.Is(err, models.ErrInsufficientBalance):
			api.ErrorResponse(c, 422, "INSUFFICIENT_BALANCE", err.Error(), nil)
		default:
			api.InternalErrorResponse(c, "Failed to withdraw")
		}
		return
	}

	api.SuccessResponse(c, 200, "Withdrawal applied successfully", result)
}

func (h *Handler) UpdatePolicy(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	account, err := h.service.UpdatePolicy(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			api.NotFoundResponse(c, "Bankroll account")
		case errors.Is(err, models.ErrInvalidKellyFraction),
			errors.Is(err, models.ErrInvalidMaxBetPercent):
			api.BadRequestResponse(c, err.Error())
		default:
			api.InternalErrorResponse(c, "Failed to update staking policy")
		}
		return
	}

	api.UpdatedResponse(c, "Staking policy updated successfully", account)
}

func (h *Handler) GetTransactions(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transactions, err := h.service.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get transactions")
		return
	}

	api.ListResponse(c, "Transactions retrieved successfully", transactions, len(transactions))
}

func (h *Handler) Audit(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	report, err := h.service.Audit(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConsistencyViolation):
			api.ErrorResponse(c, 409, "CONSISTENCY_VIOLATION", err.Error(), report)
		case errors.Is(err, models.ErrAccountNotFound):
			api.NotFoundResponse(c, "Bankroll account")
		default:
			api.InternalErrorResponse(c, "Failed to audit account")
		}
		return
	}

	api.SuccessResponse(c, 200, "Ledger reconciles with balance", report)
}
