package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/models"
)

const performanceCacheTTL = 30 * time.Second

// PerformanceCacheKey returns the cache key for a user's performance view.
// Exported so bet-mutating code paths can invalidate it.
func PerformanceCacheKey(userID uuid.UUID) string {
	return "stats:performance:" + userID.String()
}

type Service interface {
	// GetPerformance returns the aggregate view, lazily recalculating the
	// streak fields when the dirty flag is set.
	GetPerformance(ctx context.Context, userID uuid.UUID) (*PerformanceResponse, error)
	// Recalculate forces a full rebuild from the bet history.
	Recalculate(ctx context.Context, userID uuid.UUID) (*PerformanceResponse, error)
}

type service struct {
	repo  Repository
	db    *gorm.DB
	cache cache.Cache[string]
}

func NewService(repo Repository, db *gorm.DB, c cache.Cache[string]) Service {
	return &service{
		repo:  repo,
		db:    db,
		cache: c,
	}
}

func (s *service) GetPerformance(ctx context.Context, userID uuid.UUID) (*PerformanceResponse, error) {
	cacheKey := PerformanceCacheKey(userID)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var resp PerformanceResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	agg, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// a user with no bets has an all-zero view
			return ToPerformanceResponse(models.NewPerformanceAggregate(userID)), nil
		}
		return nil, fmt.Errorf("failed to get aggregate: %w", err)
	}

	if agg.NeedsRecalculation {
		return s.Recalculate(ctx, userID)
	}

	resp := ToPerformanceResponse(agg)
	s.cacheResponse(ctx, cacheKey, resp)
	return resp, nil
}

func (s *service) Recalculate(ctx context.Context, userID uuid.UUID) (*PerformanceResponse, error) {
	var rebuilt *models.PerformanceAggregate

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.GetByUserIDForUpdate(ctx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to lock aggregate: %w", err)
		}

		bets, err := txRepo.ListBets(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list bets: %w", err)
		}

		rebuilt, err = Rebuild(userID, bets)
		if err != nil {
			return fmt.Errorf("failed to rebuild aggregate: %w", err)
		}
		if existing != nil {
			rebuilt.CreatedAt = existing.CreatedAt
		}

		return txRepo.Save(ctx, rebuilt)
	})
	if err != nil {
		return nil, err
	}

	resp := ToPerformanceResponse(rebuilt)
	s.cacheResponse(ctx, PerformanceCacheKey(userID), resp)
	return resp, nil
}

func (s *service) cacheResponse(ctx context.Context, key string, resp *PerformanceResponse) {
	if encoded, err := json.Marshal(resp); err == nil {
		_ = s.cache.Set(ctx, key, string(encoded), performanceCacheTTL)
	}
}
