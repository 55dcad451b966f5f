package stats

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddsline/vigor/app/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPerformance(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	performance, err := h.service.GetPerformance(c.Request.Context(), userID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get performance")
		return
	}

	api.SuccessResponse(c, 200, "Performance retrieved successfully", performance)
}

func (h *Handler) Recalculate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}

	performance, err := h.service.Recalculate(c.Request.Context(), userID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to recalculate performance")
		return
	}

	api.SuccessResponse(c, 200, "Performance recalculated successfully", performance)
}
