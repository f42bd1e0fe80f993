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

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
	posts  *postService
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, posts *postService) *commentService {
	return &commentService{
		logger: logger,
		repo:   repo,
		posts:  posts,
	}
}

func (s *commentService) Create(ctx context.Context, requester *model.Requester, input dto.CreateCommentRequest) (*model.Comment, error) {
	if err := policy.CanCreateComment(requester); err != nil {
		return nil, err
	}

	if _, err := s.posts.findPost(ctx, input.PostID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:      uuid.New(),
		PostID:  input.PostID,
		Author:  model.RefTo[model.UserSummary](requester.ID),
		Content: input.Content,
	}

	createdComment, err := s.repo.Store.Comment.Create(ctx, comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to create user(%s) comment on post(%s): %s", requester.ID.String(), input.PostID.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	s.posts.invalidate(ctx, input.PostID)

	return createdComment, nil
}

// FindPostComments is gated by the same rule as reading the post itself.
func (s *commentService) FindPostComments(ctx context.Context, requester *model.Requester, postID uuid.UUID) ([]*model.Comment, error) {
	if _, err := s.posts.viewable(ctx, requester, postID); err != nil {
		return nil, err
	}

	comments, err := s.repo.Store.Comment.FindPostComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s) comments from store: %s", postID.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	return comments, nil
}

func (s *commentService) Delete(ctx context.Context, requester *model.Requester, id uuid.UUID) error {
	comment, err := s.repo.Store.Comment.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to find comment(%s) from store: %s", id.String(), err.Error())
		return apperr.ErrInternal
	}

	if err := policy.CanDeleteComment(requester, comment); err != nil {
		return err
	}

	if err := s.repo.Store.Comment.Delete(ctx, *comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to delete comment(%s): %s", id.String(), err.Error())
		return apperr.ErrInternal
	}

	s.posts.invalidate(ctx, comment.PostID)

	return nil
}
