package postgres

import (
	"context"

	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type commentRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newCommentRepo(db *pgxpool.Pool, logger *zap.Logger) repository.Comment {
	return &commentRepo{
		db:     db,
		logger: logger,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx, r.logger)

	tag, err := tx.Exec(ctx, "UPDATE posts SET comments = comments + 1 WHERE id = $1", comment.PostID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	if err := tx.QueryRow(
		ctx,
		"INSERT INTO comments(id, post_id, author_id, content) VALUES($1, $2, $3, $4) RETURNING created_at",
		comment.ID,
		comment.PostID,
		comment.Author.ID,
		comment.Content,
	).Scan(&comment.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, comment.ID)
}

const selectFullComment = `SELECT
	c.id, c.post_id, c.content, c.created_at, u.id, u.username, u.full_name, u.avatar
	FROM comments c
	JOIN users u ON c.author_id = u.id`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var (
		comment model.Comment
		author  model.UserSummary
	)
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.Content,
		&comment.CreatedAt,
		&author.ID,
		&author.Username,
		&author.FullName,
		&author.Avatar,
	); err != nil {
		return nil, err
	}

	comment.Author = model.ExpandedRef(author)
	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, selectFullComment+" WHERE c.id = $1", id))
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	rows, err := r.db.Query(ctx, selectFullComment+" WHERE c.post_id = $1 ORDER BY c.created_at DESC", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) Delete(ctx context.Context, comment model.Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, r.logger)

	tag, err := tx.Exec(ctx, "DELETE FROM comments WHERE id = $1", comment.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, "UPDATE posts SET comments = GREATEST(comments - 1, 0) WHERE id = $1", comment.PostID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
