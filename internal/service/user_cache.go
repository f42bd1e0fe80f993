package service

import (
	"context"
	"errors"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/CampusConnections/campus-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository) UserCache {
	return &userCacheService{
		logger: logger,
		repo:   repo,
	}
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Cache, ctx, redisrepo.UserCacheKey(id))
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
	}

	user, err := s.repo.Store.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to get user(%s) from store: %s", id.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	cached := user.Cached()
	if err := s.repo.Cache.SetJSON(ctx, redisrepo.UserCacheKey(id), cached, cacheTTL()); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return &cached, nil
}

func (s *userCacheService) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, redisrepo.UserCacheKey(id))
	}

	if err := s.repo.Cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached users(%v) from redis: %s", ids, err.Error())
	}
}
