package stats

import (
	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/internal/deps"
)

const (
	RepoKey       = "stats_repository"
	ServiceKey    = "stats_service"
	MaintainerKey = "stats_maintainer"
)

// MountPublic mounts the performance routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	r.GET("/users/:user_id/performance", handler.GetPerformance)
	r.POST("/users/:user_id/performance/recalculate", handler.Recalculate)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, container.DB, container.Cache)
	container.RegisterService(ServiceKey, srv)

	container.RegisterService(MaintainerKey, NewMaintainer(repo))
}

// createHandler creates a stats handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
