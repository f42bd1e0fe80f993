package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/CampusConnections/campus-service/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	userCache UserCache
}

func newUserService(logger *zap.Logger, repo *repository.Repository, userCache UserCache) User {
	return &userService{
		logger:    logger,
		repo:      repo,
		userCache: userCache,
	}
}

func (s *userService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, apperr.ErrInternal
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     strings.ToLower(strings.TrimSpace(input.Username)),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FullName:     input.FullName,
		University:   input.University,
	}

	createdUser, err := s.repo.Store.User.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperr.ErrUserAlreadyExists) {
			return nil, err
		}

		s.logger.Sugar().Errorf("failed to create user(%s): %s", user.Username, err.Error())
		return nil, apperr.ErrInternal
	}

	return s.authResponse(createdUser)
}

func (s *userService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.Store.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrInvalidCredentials
		}

		s.logger.Sugar().Errorf("failed to find user by email: %s", err.Error())
		return nil, apperr.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *model.User) (*dto.AuthResponse, error) {
	token, err := utils.EncodeJWT(jwt.MapClaims{
		"id":  user.ID.String(),
		"exp": time.Now().Add(tokenTTL()).Unix(),
	}, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign token for user(%s): %s", user.ID.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	return &dto.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Store.User.FindByID(ctx, id)
	if err != nil {
		return nil, s.userError(id.String(), err)
	}
	return user, nil
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.Store.User.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, s.userError(username, err)
	}

	user.Email = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, input dto.UpdateProfileRequest) (*model.User, error) {
	if err := s.repo.Store.User.Update(ctx, id, input.Updates()); err != nil {
		return nil, s.userError(id.String(), err)
	}

	s.userCache.Invalidate(ctx, id)

	return s.FindByID(ctx, id)
}

func (s *userService) userError(key string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrUserNotFound
	}

	s.logger.Sugar().Errorf("failed to access user(%s): %s", key, err.Error())
	return apperr.ErrInternal
}
