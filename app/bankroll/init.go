package bankroll

import (
	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/internal/deps"
)

const (
	RepoKey    = "bankroll_repository"
	ServiceKey = "bankroll_service"
)

// MountPublic mounts the bankroll routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	r.POST("/bankroll/accounts", handler.CreateAccount)

	userGroup := r.Group("/users/:user_id/bankroll")
	userGroup.GET("", handler.GetStatus)
	userGroup.POST("/deposits", handler.Deposit)
	userGroup.POST("/withdrawals", handler.Withdraw)
	userGroup.PATCH("/policy", handler.UpdatePolicy)
	userGroup.GET("/transactions", handler.GetTransactions)
	userGroup.GET("/audit", handler.Audit)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, container.DB, container.Cache)
	container.RegisterService(ServiceKey, srv)
}

// createHandler creates a bankroll handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
