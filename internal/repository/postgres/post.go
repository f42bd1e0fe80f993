package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectFullPost = `SELECT
	p.id, p.author_id, u.username, u.full_name, u.avatar, p.club_id, c.name,
	p.title, p.content, p.excerpt, p.cover_image, p.status, p.approval_status, p.visibility,
	p.tags, p.comments, p.views, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON p.author_id = u.id
	JOIN clubs c ON p.club_id = c.id`

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) repository.Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.Views = 0
	post.Comments = 0
	post.Likes = model.NewIDSet()

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts(id, author_id, club_id, title, content, excerpt, cover_image, status, approval_status, visibility, tags)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		post.ID,
		post.Author.ID,
		post.Club.ID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.CoverImage,
		string(post.Status),
		string(post.ApprovalStatus),
		string(post.Visibility),
		post.Tags,
	).Scan(&post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, err
	}

	return &post, nil
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		post       model.Post
		author     model.UserSummary
		club       model.ClubSummary
		status     string
		approval   string
		visibility string
	)
	if err := row.Scan(
		&post.ID,
		&author.ID,
		&author.Username,
		&author.FullName,
		&author.Avatar,
		&club.ID,
		&club.Name,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.CoverImage,
		&status,
		&approval,
		&visibility,
		&post.Tags,
		&post.Comments,
		&post.Views,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	post.Author = model.ExpandedRef(author)
	post.Club = model.ExpandedRef(club)
	post.Status = model.Status(status)
	post.ApprovalStatus = model.ApprovalStatus(approval)
	post.Visibility = model.Visibility(visibility)
	post.Likes = model.NewIDSet()
	if post.Tags == nil {
		post.Tags = []string{}
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx, selectFullPost+" WHERE p.id = $1", id))
	if err != nil {
		return nil, err
	}

	likes, err := collectIDs(ctx, r.db, "SELECT user_id FROM post_likes WHERE post_id = $1", id)
	if err != nil {
		return nil, err
	}
	post.Likes = likes

	return post, nil
}

// whereClause renders q as SQL. Bucket conditions are OR-ed, narrowing ones AND-ed.
func whereClause(q model.PostQuery) (string, []interface{}) {
	var (
		buckets []string
		filters []string
		args    []interface{}
	)
	arg := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if q.PublicFeed {
		buckets = append(buckets, "(p.approval_status = "+arg(string(model.ApprovalApproved))+
			" AND p.visibility = "+arg(string(model.VisibilityPublic))+
			" AND p.status = "+arg(string(model.StatusPublished))+")")
	}
	if q.AuthorID != uuid.Nil {
		buckets = append(buckets, "p.author_id = "+arg(q.AuthorID))
	}
	if q.ClubIDs.Len() > 0 {
		buckets = append(buckets, "p.club_id = ANY("+arg(q.ClubIDs.Strings())+"::uuid[])")
	}

	if q.OnlyClubID != uuid.Nil {
		filters = append(filters, "p.club_id = "+arg(q.OnlyClubID))
	}
	if q.ApprovalStatus != "" {
		filters = append(filters, "p.approval_status = "+arg(string(q.ApprovalStatus)))
	}

	where := "(" + strings.Join(buckets, " OR ") + ")"
	if len(filters) > 0 {
		where += " AND " + strings.Join(filters, " AND ")
	}

	return where, args
}

func (r *postRepo) Find(ctx context.Context, query model.PostQuery) ([]*model.Post, error) {
	posts := []*model.Post{}
	if query.Empty() {
		return posts, nil
	}

	where, args := whereClause(query)
	rows, err := r.db.Query(ctx, selectFullPost+" WHERE "+where+" ORDER BY p.created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	postsMap := make(map[uuid.UUID]*model.Post)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
		postsMap[post.ID] = post
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID.String())
	}

	likeRows, err := r.db.Query(ctx, "SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1::uuid[])", ids)
	if err != nil {
		return nil, err
	}
	defer likeRows.Close()

	for likeRows.Next() {
		var postID, userID uuid.UUID
		if err := likeRows.Scan(&postID, &userID); err != nil {
			return nil, err
		}
		if post, ok := postsMap[postID]; ok {
			post.Likes.Add(userID)
		}
	}

	if err := likeRows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindAccess(ctx context.Context, id uuid.UUID) (*model.PostAccess, error) {
	var (
		access     model.PostAccess
		status     string
		approval   string
		visibility string
	)
	if err := r.db.QueryRow(
		ctx,
		"SELECT author_id, club_id, status, approval_status, visibility FROM posts WHERE id = $1",
		id,
	).Scan(&access.AuthorID, &access.ClubID, &status, &approval, &visibility); err != nil {
		return nil, err
	}

	access.Status = model.Status(status)
	access.ApprovalStatus = model.ApprovalStatus(approval)
	access.Visibility = model.Visibility(visibility)

	return &access, nil
}

func (r *postRepo) Update(ctx context.Context, post model.Post, resubmit bool) (*model.Post, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE posts SET
		title = $1, content = $2, excerpt = $3, cover_image = $4, status = $5, visibility = $6, tags = $7,
		approval_status = CASE WHEN $8::boolean AND approval_status <> $9 THEN $10 ELSE approval_status END,
		updated_at = now()
		WHERE id = $11`,
		post.Title,
		post.Content,
		post.Excerpt,
		post.CoverImage,
		string(post.Status),
		string(post.Visibility),
		post.Tags,
		resubmit,
		string(model.ApprovalRejected),
		string(model.ApprovalPending),
		post.ID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	return r.FindByID(ctx, post.ID)
}

func (r *postRepo) SetApprovalStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	tag, err := r.db.Exec(ctx, "UPDATE posts SET approval_status = $1, updated_at = now() WHERE id = $2", string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepo) IncrViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var views int64
	if err := r.db.QueryRow(ctx, "UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING views", id).Scan(&views); err != nil {
		return 0, err
	}
	return views, nil
}

func (r *postRepo) Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO post_likes(post_id, user_id)
		SELECT p.id, $2 FROM posts p WHERE p.id = $1
		ON CONFLICT DO NOTHING`,
		postID,
		userID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)", postID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return apperr.ErrAlreadyLiked
	}

	return nil
}

func (r *postRepo) Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2", postID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotLiked
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
