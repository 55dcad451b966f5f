package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/app/api"
	"github.com/oddsline/vigor/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) QuoteEV(c *gin.Context) {
	var req EVQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	quote, err := h.service.QuoteEV(&req)
	if err != nil {
		h.quoteError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Expected value computed", quote)
}

func (h *Handler) QuoteKelly(c *gin.Context) {
	var req KellyQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	quote, err := h.service.QuoteKelly(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			api.NotFoundResponse(c, "Bankroll account")
			return
		}
		h.quoteError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Kelly stake computed", quote)
}

func (h *Handler) QuoteCLV(c *gin.Context) {
	var req CLVQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	quote, err := h.service.QuoteCLV(&req)
	if err != nil {
		h.quoteError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Closing line value computed", quote)
}

func (h *Handler) quoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidOdds),
		errors.Is(err, models.ErrInvalidProbability),
		errors.Is(err, models.ErrInvalidStake),
		errors.Is(err, models.ErrInvalidBankroll),
		errors.Is(err, models.ErrInvalidKellyFraction):
		api.BadRequestResponse(c, err.Error())
	default:
		api.InternalErrorResponse(c, "Failed to compute quote")
	}
}
