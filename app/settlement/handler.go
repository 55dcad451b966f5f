package settlement

import (
	"errors"
	"net/http"

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

// SettleBet settles a single pending bet with an explicit outcome.
func (h *Handler) SettleBet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid bet ID format")
		return
	}

	var req SettleBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.Settle(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "Bet")
		case errors.Is(err, models.ErrAccountNotFound):
			api.NotFoundResponse(c, "Bankroll account")
		case errors.Is(err, models.ErrBetAlreadySettled):
			api.ConflictResponse(c, err.Error())
		case errors.Is(err, models.ErrConcurrentModification):
			api.ErrorResponse(c, http.StatusConflict, "CONCURRENT_MODIFICATION",
				"Bet is being settled by another request, retry shortly", nil)
		case errors.Is(err, models.ErrInvalidOutcome),
			errors.Is(err, models.ErrInvalidActualReturn):
			api.BadRequestResponse(c, err.Error())
		default:
			api.InternalErrorResponse(c, "Failed to settle bet")
		}
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Bet settled successfully", result)
}

// Sweep runs one settlement pass over all pending bets.
func (h *Handler) Sweep(c *gin.Context) {
	report, err := h.service.SweepPending(c.Request.Context())
	if err != nil {
		api.InternalErrorResponse(c, "Failed to sweep pending bets")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Sweep completed", report)
}
