package memory

import (
	"context"
	"strings"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userRepo struct {
	db *db
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, user.Email) || strings.EqualFold(existing.Username, user.Username) {
			return nil, apperr.ErrUserAlreadyExists
		}
	}

	stored := user
	stored.AdminOf, stored.JoinedClubs = nil, nil
	r.db.users[user.ID] = &stored

	return r.db.userCopy(&stored), nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.db.userCopy(user), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *userRepo) findBy(match func(*model.User) bool) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if match(user) {
			return r.db.userCopy(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if err := repository.CheckUpdates(updates, repository.UserUpdatableFields); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[id]
	if !ok {
		return pgx.ErrNoRows
	}

	for field, value := range updates {
		s, _ := value.(string)
		switch field {
		case "full_name":
			user.FullName = s
		case "avatar":
			user.Avatar = s
		case "bio":
			user.Bio = s
		case "university":
			user.University = s
		}
	}

	return nil
}
