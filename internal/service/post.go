package service

import (
	"context"
	"errors"
	"time"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/policy"
	"github.com/CampusConnections/campus-service/internal/rabbitmq"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/CampusConnections/campus-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type postService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher rabbitmq.Publisher
}

func newPostService(logger *zap.Logger, repo *repository.Repository, publisher rabbitmq.Publisher) *postService {
	return &postService{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func (s *postService) findPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.repo.Store.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) from store: %s", id.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	return post, nil
}

// cachedPost reads through redis. Only reads go through here, mutations use findPost.
func (s *postService) cachedPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	cachedPost, err := redisrepo.Get[model.Post](s.repo.Cache, ctx, redisrepo.PostKey(id))
	if err == nil && cachedPost != nil {
		return cachedPost, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%s) from redis: %s", id.String(), err.Error())
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Cache.SetJSON(ctx, redisrepo.PostKey(id), post, cacheTTL()); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%s) in redis: %s", id.String(), err.Error())
	}

	return post, nil
}

func (s *postService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.repo.Cache.Del(ctx, redisrepo.PostKey(id)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%s) from redis: %s", id.String(), err.Error())
	}
}

func (s *postService) findClub(ctx context.Context, id uuid.UUID) (*model.Club, error) {
	club, err := s.repo.Store.Club.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrClubNotFound
		}

		s.logger.Sugar().Errorf("failed to find club(%s) from store: %s", id.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	return club, nil
}

func (s *postService) findAccess(ctx context.Context, id uuid.UUID) (*model.PostAccess, error) {
	access, err := s.repo.Store.Post.FindAccess(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) access from store: %s", id.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	return access, nil
}

// viewable loads a post with its club and checks requester may read it.
// The decision uses the store's gate columns; a cached copy that disagrees
// with them is dropped and reloaded.
func (s *postService) viewable(ctx context.Context, requester *model.Requester, id uuid.UUID) (*model.Post, error) {
	access, err := s.findAccess(ctx, id)
	if err != nil {
		return nil, err
	}

	post, err := s.cachedPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.Matches(post) {
		s.invalidate(ctx, id)

		post, err = s.findPost(ctx, id)
		if err != nil {
			return nil, err
		}
		if !access.Matches(post) {
			// Changed again under us; fall back to the newest gate values.
			post.Status = access.Status
			post.ApprovalStatus = access.ApprovalStatus
			post.Visibility = access.Visibility
		}
	}

	club, err := s.findClub(ctx, access.ClubID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanView(requester, post, club); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *postService) find(ctx context.Context, query model.PostQuery) ([]*model.Post, error) {
	posts, err := s.repo.Store.Post.Find(ctx, query)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts(%+v) from store: %s", query, err.Error())
		return nil, apperr.ErrInternal
	}

	return posts, nil
}

func (s *postService) Find(ctx context.Context, requester *model.Requester) ([]*model.Post, error) {
	return s.find(ctx, policy.ListQuery(requester))
}

func (s *postService) FindPending(ctx context.Context, requester *model.Requester) ([]*model.Post, error) {
	query, err := policy.PendingQuery(requester)
	if err != nil {
		return nil, err
	}

	return s.find(ctx, query)
}

func (s *postService) FindByID(ctx context.Context, requester *model.Requester, id uuid.UUID) (*model.Post, error) {
	post, err := s.viewable(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	views, err := s.repo.Store.Post.IncrViews(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to increment views for post(%s): %s", id.String(), err.Error())
		return post, nil
	}
	post.Views = views

	return post, nil
}

func (s *postService) Create(ctx context.Context, requester *model.Requester, input dto.CreatePostRequest) (*model.Post, error) {
	if !requester.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}

	if input.Club.ID == uuid.Nil {
		return nil, apperr.ErrInvalidClubRef
	}

	status, visibility := input.Status, input.Visibility
	if status == "" {
		status = model.StatusDraft
	}
	if visibility == "" {
		visibility = model.VisibilityPrivate
	}
	if !status.Valid() {
		return nil, apperr.ErrInvalidStatus
	}
	if !visibility.Valid() {
		return nil, apperr.ErrInvalidVisibility
	}

	club, err := s.findClub(ctx, input.Club.ID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanCreatePost(requester, club); err != nil {
		return nil, err
	}

	post := model.Post{
		ID:             uuid.New(),
		Author:         model.RefTo[model.UserSummary](requester.ID),
		Club:           model.RefTo[model.ClubSummary](club.ID),
		Title:          input.Title,
		Content:        input.Content,
		Excerpt:        input.Excerpt,
		CoverImage:     input.CoverImage,
		Status:         status,
		ApprovalStatus: policy.InitialApproval(club, requester.ID),
		Visibility:     visibility,
		Tags:           input.Tags,
	}

	createdPost, err := s.repo.Store.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post in club(%s): %s", requester.ID.String(), club.ID.String(), err.Error())
		return nil, apperr.ErrInternal
	}

	if createdPost.ApprovalStatus == model.ApprovalPending {
		s.publishSubmitted(ctx, createdPost, club)
	}

	return createdPost, nil
}

func (s *postService) Update(ctx context.Context, requester *model.Requester, id uuid.UUID, input dto.EditPostRequest) (*model.Post, bool, error) {
	edit := policy.PostEdit{
		Title:      input.Title,
		Content:    input.Content,
		Excerpt:    input.Excerpt,
		CoverImage: input.CoverImage,
		Status:     input.Status,
		Visibility: input.Visibility,
		Tags:       input.Tags,
	}
	if err := edit.Validate(); err != nil {
		return nil, false, err
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if err := policy.CanUpdatePost(requester, post); err != nil {
		return nil, false, err
	}

	club, err := s.findClub(ctx, post.Club.ID)
	if err != nil {
		return nil, false, err
	}

	edited, resubmit := policy.ApplyEdit(*post, edit, club.IsAdmin(requester.ID))

	updatedPost, err := s.repo.Store.Post.Update(ctx, edited, resubmit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, apperr.ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to update post(%s): %s", id.String(), err.Error())
		return nil, false, apperr.ErrInternal
	}

	s.invalidate(ctx, id)

	// A decision landing after our read wins over the resubmission.
	resubmitted := resubmit && updatedPost.ApprovalStatus == model.ApprovalPending
	if resubmitted {
		s.publishSubmitted(ctx, updatedPost, club)
	}

	return updatedPost, resubmitted, nil
}

func (s *postService) Delete(ctx context.Context, requester *model.Requester, id uuid.UUID) error {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}

	club, err := s.findClub(ctx, post.Club.ID)
	if err != nil {
		return err
	}

	if err := policy.CanDeletePost(requester, post, club); err != nil {
		return err
	}

	if err := s.repo.Store.Post.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to delete post(%s): %s", id.String(), err.Error())
		return apperr.ErrInternal
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *postService) Review(ctx context.Context, requester *model.Requester, id uuid.UUID, status model.ApprovalStatus) (*model.Post, error) {
	decision, err := policy.Decision(status)
	if err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	club, err := s.findClub(ctx, post.Club.ID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanReviewPost(requester, club); err != nil {
		return nil, err
	}

	if err := s.repo.Store.Post.SetApprovalStatus(ctx, id, decision); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to set post(%s) approval status to %s: %s", id.String(), decision, err.Error())
		return nil, apperr.ErrInternal
	}

	s.invalidate(ctx, id)
	post.ApprovalStatus = decision

	s.publish(ctx, rabbitmq.POST_REVIEWED_QUEUE, dto.MQPostReviewedMsg{
		PostID:         post.ID,
		AuthorID:       post.Author.ID,
		ReviewerID:     requester.ID,
		PostTitle:      post.Title,
		ApprovalStatus: string(decision),
		ReviewedAt:     time.Now(),
	})

	return post, nil
}

func (s *postService) Like(ctx context.Context, requester *model.Requester, id uuid.UUID, unlike bool) error {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanLike(requester, post, unlike); err != nil {
		return err
	}

	// The store re-checks the like set atomically; a concurrent request may win.
	if unlike {
		err = s.repo.Store.Post.Unlike(ctx, id, requester.ID)
	} else {
		err = s.repo.Store.Post.Like(ctx, id, requester.ID)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return err
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to toggle like(unlike=%t) of user(%s) on post(%s): %s", unlike, requester.ID.String(), id.String(), err.Error())
		return apperr.ErrInternal
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *postService) publishSubmitted(ctx context.Context, post *model.Post, club *model.Club) {
	s.publish(ctx, rabbitmq.POST_SUBMITTED_QUEUE, dto.MQPostSubmittedMsg{
		PostID:    post.ID,
		ClubID:    club.ID,
		AuthorID:  post.Author.ID,
		AdminIDs:  club.Admins.Slice(),
		PostTitle: post.Title,
		CreatedAt: time.Now(),
	})
}

// publish never fails the request; a lost notification is only logged.
func (s *postService) publish(ctx context.Context, queue string, body interface{}) {
	if err := s.publisher.Publish(ctx, queue, body); err != nil {
		s.logger.Sugar().Errorf("failed to publish message to queue(%s): %s", queue, err.Error())
	}
}
