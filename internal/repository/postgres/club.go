package postgres

import (
	"context"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type clubRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newClubRepo(db *pgxpool.Pool, logger *zap.Logger) repository.Club {
	return &clubRepo{
		db:     db,
		logger: logger,
	}
}

func (r *clubRepo) Create(ctx context.Context, club model.Club, creatorID uuid.UUID) (*model.Club, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx, r.logger)

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO clubs(id, name, description, university, cover_image)
		VALUES($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		club.ID,
		club.Name,
		club.Description,
		club.University,
		club.CoverImage,
	).Scan(&club.CreatedAt, &club.UpdatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "INSERT INTO club_members(club_id, user_id) VALUES($1, $2)", club.ID, creatorID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "INSERT INTO club_admins(club_id, user_id) VALUES($1, $2)", club.ID, creatorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	club.Admins = model.NewIDSet(creatorID)
	club.Members = model.NewIDSet(creatorID)
	return &club, nil
}

func (r *clubRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Club, error) {
	var club model.Club
	if err := r.db.QueryRow(
		ctx,
		`SELECT c.id, c.name, c.description, c.university, c.cover_image, c.created_at, c.updated_at
		FROM clubs c
		WHERE c.id = $1`,
		id,
	).Scan(
		&club.ID,
		&club.Name,
		&club.Description,
		&club.University,
		&club.CoverImage,
		&club.CreatedAt,
		&club.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := r.loadSets(ctx, &club); err != nil {
		return nil, err
	}

	return &club, nil
}

func (r *clubRepo) loadSets(ctx context.Context, club *model.Club) error {
	admins, err := collectIDs(ctx, r.db, "SELECT user_id FROM club_admins WHERE club_id = $1", club.ID)
	if err != nil {
		return err
	}
	members, err := collectIDs(ctx, r.db, "SELECT user_id FROM club_members WHERE club_id = $1", club.ID)
	if err != nil {
		return err
	}

	club.Admins = admins
	club.Members = members
	return nil
}

func (r *clubRepo) FindAll(ctx context.Context) ([]*model.Club, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.name, c.description, c.university, c.cover_image, c.created_at, c.updated_at
		FROM clubs c
		ORDER BY c.created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := []*model.Club{}
	clubsMap := make(map[uuid.UUID]*model.Club)
	for rows.Next() {
		var club model.Club
		if err := rows.Scan(
			&club.ID,
			&club.Name,
			&club.Description,
			&club.University,
			&club.CoverImage,
			&club.CreatedAt,
			&club.UpdatedAt,
		); err != nil {
			return nil, err
		}

		club.Admins = model.NewIDSet()
		club.Members = model.NewIDSet()
		clubs = append(clubs, &club)
		clubsMap[club.ID] = &club
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.fillSets(ctx, clubsMap, "SELECT club_id, user_id FROM club_admins", func(c *model.Club) model.IDSet { return c.Admins }); err != nil {
		return nil, err
	}
	if err := r.fillSets(ctx, clubsMap, "SELECT club_id, user_id FROM club_members", func(c *model.Club) model.IDSet { return c.Members }); err != nil {
		return nil, err
	}

	return clubs, nil
}

func (r *clubRepo) fillSets(ctx context.Context, clubs map[uuid.UUID]*model.Club, query string, set func(*model.Club) model.IDSet) error {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var clubID, userID uuid.UUID
		if err := rows.Scan(&clubID, &userID); err != nil {
			return err
		}
		if club, ok := clubs[clubID]; ok {
			set(club).Add(userID)
		}
	}

	return rows.Err()
}

func (r *clubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	if err := repository.CheckUpdates(updates, repository.ClubUpdatableFields); err != nil {
		return err
	}

	query, args := updateQuery("clubs", updates, "updated_at = now()")
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

func (r *clubRepo) AddMember(ctx context.Context, clubID uuid.UUID, userID uuid.UUID) error {
	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO club_members(club_id, user_id)
		SELECT c.id, $2 FROM clubs c WHERE c.id = $1
		ON CONFLICT DO NOTHING`,
		clubID,
		userID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM clubs WHERE id = $1)", clubID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return apperr.ErrAlreadyMember
	}

	return nil
}

// RemoveMember locks the club row so concurrent leaves by two admins are
// evaluated one after the other against the same admin count.
func (r *clubRepo) RemoveMember(ctx context.Context, clubID uuid.UUID, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, r.logger)

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, "SELECT id FROM clubs WHERE id = $1 FOR UPDATE", clubID).Scan(&locked); err != nil {
		return err
	}

	var (
		isMember bool
		isAdmin  bool
		admins   int
	)
	if err := tx.QueryRow(
		ctx,
		`SELECT
		EXISTS(SELECT 1 FROM club_members WHERE club_id = $1 AND user_id = $2),
		EXISTS(SELECT 1 FROM club_admins WHERE club_id = $1 AND user_id = $2),
		(SELECT COUNT(*) FROM club_admins WHERE club_id = $1)`,
		clubID,
		userID,
	).Scan(&isMember, &isAdmin, &admins); err != nil {
		return err
	}

	if !isMember {
		return apperr.ErrNotMember
	}
	if isAdmin && admins == 1 {
		return apperr.ErrLastAdmin
	}

	// club_admins references club_members and cascades.
	if _, err := tx.Exec(ctx, "DELETE FROM club_members WHERE club_id = $1 AND user_id = $2", clubID, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
