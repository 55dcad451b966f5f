package settlement

import (
	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/app/stats"
	"github.com/oddsline/vigor/internal/deps"
)

const (
	RepoKey    = "settlement_repository"
	ServiceKey = "settlement_service"
)

// MountPublic mounts the settlement routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	r.POST("/bets/:id/settle", handler.SettleBet)
	r.POST("/settlement/sweep", handler.Sweep)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container, config *Config) {
	if config == nil {
		config = GetDefaultConfig()
	}

	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	maintainer := container.GetService(stats.MaintainerKey).(stats.Maintainer)
	provider := NewHTTPScoreProvider(config.ScoreFeedURL, config.ScoreFeedTimeout)
	resolver := NewScoreResolver(provider)

	srv := NewService(container.DB, repo, maintainer, resolver, container.Cache, container.Logger, config)
	container.RegisterService(ServiceKey, srv)
}

// createHandler creates a settlement handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
