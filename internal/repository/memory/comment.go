package memory

import (
	"context"
	"sort"
	"time"

	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type commentRepo struct {
	db *db
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[comment.PostID]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	comment.CreatedAt = time.Now()
	comment.Author = model.RefTo[model.UserSummary](comment.Author.ID)
	r.db.comments[comment.ID] = &comment
	post.Comments++

	return r.db.expandComment(&comment), nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	comment, ok := r.db.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.db.expandComment(comment), nil
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	comments := []*model.Comment{}
	for _, comment := range r.db.comments {
		if comment.PostID == postID {
			comments = append(comments, r.db.expandComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})

	return comments, nil
}

func (r *commentRepo) Delete(ctx context.Context, comment model.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.db.comments, comment.ID)

	if post, ok := r.db.posts[comment.PostID]; ok && post.Comments > 0 {
		post.Comments--
	}
	return nil
}
