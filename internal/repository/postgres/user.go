package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) repository.User {
	return &userRepo{
		db: db,
	}
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO users(id, username, email, password_hash, full_name, avatar, bio, university)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		user.ID,
		strings.ToLower(user.Username),
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.FullName,
		user.Avatar,
		user.Bio,
		user.University,
	).Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.ErrUserAlreadyExists
		}
		return nil, err
	}

	user.AdminOf = model.NewIDSet()
	user.JoinedClubs = model.NewIDSet()
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "u.email = $1", strings.ToLower(email))
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "u.username = $1", strings.ToLower(username))
}

func (r *userRepo) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.QueryRow(
		ctx,
		`SELECT u.id, u.username, u.email, u.password_hash, u.full_name, u.avatar, u.bio, u.university, u.created_at
		FROM users u
		WHERE `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Avatar,
		&user.Bio,
		&user.University,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	adminOf, err := collectIDs(ctx, r.db, "SELECT club_id FROM club_admins WHERE user_id = $1", user.ID)
	if err != nil {
		return nil, err
	}
	joined, err := collectIDs(ctx, r.db, "SELECT club_id FROM club_members WHERE user_id = $1", user.ID)
	if err != nil {
		return nil, err
	}
	user.AdminOf = adminOf
	user.JoinedClubs = joined

	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	if err := repository.CheckUpdates(updates, repository.UserUpdatableFields); err != nil {
		return err
	}

	query, args := updateQuery("users", updates, "")
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func collectIDs(ctx context.Context, q querier, query string, args ...interface{}) (model.IDSet, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := model.NewIDSet()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids.Add(id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
