package service

import (
	"context"
	"time"

	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/rabbitmq"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DEFAULT_CACHE_TTL = time.Hour
	DEFAULT_TOKEN_TTL = 30 * 24 * time.Hour
)

type User interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input dto.UpdateProfileRequest) (*model.User, error)
}

// UserCache resolves requesters and keeps their cached club sets fresh.
type UserCache interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}

type Club interface {
	FindAll(ctx context.Context) ([]*model.Club, error)
	FindByID(ctx context.Context, requester *model.Requester, id uuid.UUID) (*model.FullClub, error)
	Create(ctx context.Context, requester *model.Requester, input dto.CreateClubRequest) (*model.Club, error)
	Update(ctx context.Context, requester *model.Requester, id uuid.UUID, input dto.UpdateClubRequest) (*model.Club, error)
	Join(ctx context.Context, requester *model.Requester, id uuid.UUID) error
	Leave(ctx context.Context, requester *model.Requester, id uuid.UUID) error
}

type Post interface {
	Find(ctx context.Context, requester *model.Requester) ([]*model.Post, error)
	FindPending(ctx context.Context, requester *model.Requester) ([]*model.Post, error)
	FindByID(ctx context.Context, requester *model.Requester, id uuid.UUID) (*model.Post, error)
	Create(ctx context.Context, requester *model.Requester, input dto.CreatePostRequest) (*model.Post, error)
	Update(ctx context.Context, requester *model.Requester, id uuid.UUID, input dto.EditPostRequest) (*model.Post, bool, error)
	Delete(ctx context.Context, requester *model.Requester, id uuid.UUID) error
	Review(ctx context.Context, requester *model.Requester, id uuid.UUID, status model.ApprovalStatus) (*model.Post, error)
	Like(ctx context.Context, requester *model.Requester, id uuid.UUID, unlike bool) error
}

type Comment interface {
	Create(ctx context.Context, requester *model.Requester, input dto.CreateCommentRequest) (*model.Comment, error)
	FindPostComments(ctx context.Context, requester *model.Requester, postID uuid.UUID) ([]*model.Comment, error)
	Delete(ctx context.Context, requester *model.Requester, id uuid.UUID) error
}

type Service struct {
	User
	UserCache UserCache
	Club
	Post
	Comment
}

func New(logger *zap.Logger, repo *repository.Repository, publisher rabbitmq.Publisher) *Service {
	userCache := newUserCacheService(logger, repo)
	posts := newPostService(logger, repo, publisher)

	return &Service{
		User:      newUserService(logger, repo, userCache),
		UserCache: userCache,
		Club:      newClubService(logger, repo, userCache, posts),
		Post:      posts,
		Comment:   newCommentService(logger, repo, posts),
	}
}

func cacheTTL() time.Duration {
	if ttl := viper.GetDuration("cache.ttl"); ttl > 0 {
		return ttl
	}
	return DEFAULT_CACHE_TTL
}

func tokenTTL() time.Duration {
	if ttl := viper.GetDuration("token.ttl"); ttl > 0 {
		return ttl
	}
	return DEFAULT_TOKEN_TTL
}
