package memory

import (
	"context"
	"sort"
	"time"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type clubRepo struct {
	db *db
}

func (r *clubRepo) Create(ctx context.Context, club model.Club, creatorID uuid.UUID) (*model.Club, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	club.CreatedAt = now
	club.UpdatedAt = now
	club.Admins = model.NewIDSet(creatorID)
	club.Members = model.NewIDSet(creatorID)
	r.db.clubs[club.ID] = &club

	return clubCopy(&club), nil
}

func (r *clubRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Club, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	club, ok := r.db.clubs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return clubCopy(club), nil
}

func (r *clubRepo) FindAll(ctx context.Context) ([]*model.Club, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	clubs := make([]*model.Club, 0, len(r.db.clubs))
	for _, club := range r.db.clubs {
		clubs = append(clubs, clubCopy(club))
	}
	sort.Slice(clubs, func(i, j int) bool {
		return clubs[i].CreatedAt.Before(clubs[j].CreatedAt)
	})

	return clubs, nil
}

func (r *clubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if err := repository.CheckUpdates(updates, repository.ClubUpdatableFields); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	club, ok := r.db.clubs[id]
	if !ok {
		return pgx.ErrNoRows
	}

	for field, value := range updates {
		s, _ := value.(string)
		switch field {
		case "name":
			club.Name = s
		case "description":
			club.Description = s
		case "university":
			club.University = s
		case "cover_image":
			club.CoverImage = s
		}
	}
	club.UpdatedAt = time.Now()

	return nil
}

func (r *clubRepo) AddMember(ctx context.Context, clubID uuid.UUID, userID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	club, ok := r.db.clubs[clubID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !club.Members.Add(userID) {
		return apperr.ErrAlreadyMember
	}
	return nil
}

func (r *clubRepo) RemoveMember(ctx context.Context, clubID uuid.UUID, userID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	club, ok := r.db.clubs[clubID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !club.Members.Has(userID) {
		return apperr.ErrNotMember
	}
	if club.IsSoleAdmin(userID) {
		return apperr.ErrLastAdmin
	}

	club.Members.Remove(userID)
	club.Admins.Remove(userID)
	return nil
}
