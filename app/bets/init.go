package bets

import (
	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/app/stats"
	"github.com/oddsline/vigor/internal/deps"
)

const (
	RepoKey    = "bets_repository"
	ServiceKey = "bets_service"
)

// MountPublic mounts the bet routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	betsGroup := r.Group("/bets")
	betsGroup.POST("", handler.PlaceBet)
	betsGroup.GET("/:id", handler.GetBet)
	betsGroup.DELETE("/:id", handler.DeleteBet)

	r.GET("/users/:user_id/bets", handler.GetUserBets)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	maintainer := container.GetService(stats.MaintainerKey).(stats.Maintainer)
	srv := NewService(container.DB, repo, maintainer, container.Cache)
	container.RegisterService(ServiceKey, srv)
}

// createHandler creates a bets handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
