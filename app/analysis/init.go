package analysis

import (
	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/app/bankroll"
	"github.com/oddsline/vigor/internal/deps"
)

const ServiceKey = "analysis_service"

// MountPublic mounts the analysis routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	analysisGroup := r.Group("/analysis")
	analysisGroup.POST("/ev", handler.QuoteEV)
	analysisGroup.POST("/kelly", handler.QuoteKelly)
	analysisGroup.POST("/clv", handler.QuoteCLV)
}

// InitRepositories initializes and registers services for this module
func InitRepositories(container *deps.Container) {
	accounts := container.GetRepository(bankroll.RepoKey).(bankroll.Repository)
	container.RegisterService(ServiceKey, NewService(accounts))
}

// createHandler creates an analysis handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
