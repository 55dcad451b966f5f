package bets

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddsline/vigor/app/api"
	"github.com/oddsline/vigor/internal/validator"
	"github.com/oddsline/vigor/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) PlaceBet(c *gin.Context) {
	var req PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	bet, err := h.service.PlaceBet(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidOdds),
			errors.Is(err, models.ErrInvalidStake),
			errors.Is(err, models.ErrInvalidSideKey),
			errors.Is(err, models.ErrInvalidEventID):
			api.BadRequestResponse(c, err.Error())
		default:
			api.InternalErrorResponse(c, "Failed to place bet")
		}
		return
	}

	api.CreatedResponse(c, "Bet placed successfully", bet)
}

func (h *Handler) GetBet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid bet ID format")
		return
	}

	bet, err := h.service.GetBet(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Bet")
			return
		}
		api.InternalErrorResponse(c, "Failed to get bet")
		return
	}

	api.SuccessResponse(c, 200, "Bet retrieved successfully", bet)
}

func (h *Handler) GetUserBets(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	var filters BetFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.GetUserBets(c.Request.Context(), userID, &filters)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to list bets")
		return
	}

	api.SuccessResponse(c, 200, "Bets retrieved successfully", result)
}

func (h *Handler) DeleteBet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid bet ID format")
		return
	}

	err = h.service.DeleteBet(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "Bet")
		case errors.Is(err, models.ErrAccountNotFound):
			api.NotFoundResponse(c, "Bankroll account")
		default:
			api.InternalErrorResponse(c, "Failed to delete bet")
		}
		return
	}

	api.DeletedResponse(c, "Bet deleted successfully")
}
