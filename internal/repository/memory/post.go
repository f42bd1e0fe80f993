package memory

import (
	"context"
	"time"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type postRepo struct {
	db *db
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Views = 0
	post.Comments = 0
	post.Likes = model.NewIDSet()
	post.Author = model.RefTo[model.UserSummary](post.Author.ID)
	post.Club = model.RefTo[model.ClubSummary](post.Club.ID)
	if post.Tags == nil {
		post.Tags = []string{}
	}
	r.db.posts[post.ID] = &post

	return r.db.expandPost(&post), nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	post, ok := r.db.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.db.expandPost(post), nil
}

func (r *postRepo) Find(ctx context.Context, query model.PostQuery) ([]*model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	posts := []*model.Post{}
	if query.Empty() {
		return posts, nil
	}

	for _, post := range r.db.posts {
		if query.Matches(post) {
			posts = append(posts, r.db.expandPost(post))
		}
	}
	newestFirst(posts)

	return posts, nil
}

func (r *postRepo) FindAccess(ctx context.Context, id uuid.UUID) (*model.PostAccess, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	post, ok := r.db.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.PostAccess{
		AuthorID:       post.Author.ID,
		ClubID:         post.Club.ID,
		Status:         post.Status,
		ApprovalStatus: post.ApprovalStatus,
		Visibility:     post.Visibility,
	}, nil
}

func (r *postRepo) Update(ctx context.Context, post model.Post, resubmit bool) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.posts[post.ID]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	stored.Title = post.Title
	stored.Content = post.Content
	stored.Excerpt = post.Excerpt
	stored.CoverImage = post.CoverImage
	stored.Status = post.Status
	stored.Visibility = post.Visibility
	if resubmit && stored.ApprovalStatus != model.ApprovalRejected {
		stored.ApprovalStatus = model.ApprovalPending
	}
	stored.Tags = append([]string(nil), post.Tags...)
	stored.UpdatedAt = time.Now()

	return r.db.expandPost(stored), nil
}

func (r *postRepo) SetApprovalStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	post.ApprovalStatus = status
	post.UpdatedAt = time.Now()
	return nil
}

func (r *postRepo) IncrViews(ctx context.Context, id uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	post.Views++
	return post.Views, nil
}

func (r *postRepo) Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[postID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !post.Likes.Add(userID) {
		return apperr.ErrAlreadyLiked
	}
	return nil
}

func (r *postRepo) Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[postID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !post.Likes.Remove(userID) {
		return apperr.ErrNotLiked
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.db.posts, id)

	for commentID, comment := range r.db.comments {
		if comment.PostID == id {
			delete(r.db.comments, commentID)
		}
	}
	return nil
}
