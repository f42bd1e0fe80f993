package service

import (
	"context"
	"errors"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/policy"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type clubService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	userCache UserCache
	posts     *postService
}

func newClubService(logger *zap.Logger, repo *repository.Repository, userCache UserCache, posts *postService) *clubService {
	return &clubService{
		logger:    logger,
		repo:      repo,
		userCache: userCache,
		posts:     posts,
	}
}

func (s *clubService) FindAll(ctx context.Context) ([]*model.Club, error) {
	clubs, err := s.repo.Store.Club.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find clubs from store: %s", err.Error())
		return nil, apperr.ErrInternal
	}

	return clubs, nil
}

func (s *clubService) FindByID(ctx context.Context, requester *model.Requester, id uuid.UUID) (*model.FullClub, error) {
	club, err := s.posts.findClub(ctx, id)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.find(ctx, policy.ClubListQuery(requester, club))
	if err != nil {
		return nil, err
	}

	return &model.FullClub{
		Club:  club,
		Posts: posts,
	}, nil
}

func (s *clubService) Create(ctx context.Context, requester *model.Requester, input dto.CreateClubRequest) (*model.Club, error) {
	if err := policy.CanCreateClub(requester); err != nil {
		return nil, err
	}

	club := model.Club{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		University:  input.University,
		CoverImage:  input.CoverImage,
	}

	createdClub, err := s.repo.Store.Club.Create(ctx, club, requester.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create club(%s) for user(%s): %s", club.Name, requester.ID.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	s.userCache.Invalidate(ctx, requester.ID)

	return createdClub, nil
}

func (s *clubService) Update(ctx context.Context, requester *model.Requester, id uuid.UUID, input dto.UpdateClubRequest) (*model.Club, error) {
	club, err := s.posts.findClub(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.CanUpdateClub(requester, club); err != nil {
		return nil, err
	}

	updates := input.Updates()
	if len(updates) == 0 {
		return club, nil
	}

	if err := s.repo.Store.Club.Update(ctx, id, updates); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrClubNotFound
		}

		s.logger.Sugar().Errorf("failed to update club(%s): %s", id.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	return s.posts.findClub(ctx, id)
}

func (s *clubService) Join(ctx context.Context, requester *model.Requester, id uuid.UUID) error {
	club, err := s.posts.findClub(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanJoinClub(requester, club); err != nil {
		return err
	}

	if err := s.repo.Store.Club.AddMember(ctx, id, requester.ID); err != nil {
		return s.membershipError(err, "join", id, requester.ID)
	}

	s.userCache.Invalidate(ctx, requester.ID)

	return nil
}

func (s *clubService) Leave(ctx context.Context, requester *model.Requester, id uuid.UUID) error {
	club, err := s.posts.findClub(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanLeaveClub(requester, club); err != nil {
		return err
	}

	if err := s.repo.Store.Club.RemoveMember(ctx, id, requester.ID); err != nil {
		return s.membershipError(err, "leave", id, requester.ID)
	}

	s.userCache.Invalidate(ctx, requester.ID)

	return nil
}

func (s *clubService) membershipError(err error, action string, clubID, userID uuid.UUID) error {
	if errors.Is(err, apperr.ErrConflict) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrClubNotFound
	}

	s.logger.Sugar().Errorf("failed to %s club(%s) for user(%s): %s", action, clubID.String(), userID.String(), err.Error())
	return apperr.ErrInternal
}
