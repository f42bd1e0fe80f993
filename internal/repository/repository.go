package repository

import (
	"context"
	"errors"
	"time"

	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Stores report missing rows with pgx.ErrNoRows whatever their backend, and
// set-membership conflicts with the apperr sentinels.

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type Club interface {
	// Create stores the club with its creator as sole admin and member.
	Create(ctx context.Context, club model.Club, creatorID uuid.UUID) (*model.Club, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Club, error)
	FindAll(ctx context.Context) ([]*model.Club, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	// AddMember fails with apperr.ErrAlreadyMember when userID is a member.
	AddMember(ctx context.Context, clubID uuid.UUID, userID uuid.UUID) error
	// RemoveMember drops userID from members and admins. It fails with
	// apperr.ErrNotMember or apperr.ErrLastAdmin and then changes nothing.
	RemoveMember(ctx context.Context, clubID uuid.UUID, userID uuid.UUID) error
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Find(ctx context.Context, query model.PostQuery) ([]*model.Post, error)
	// FindAccess reads the gate columns straight from the store.
	FindAccess(ctx context.Context, id uuid.UUID) (*model.PostAccess, error)
	// Update writes the editable fields of post. The stored approval status is
	// never overwritten: resubmit moves it to pending unless it is rejected.
	Update(ctx context.Context, post model.Post, resubmit bool) (*model.Post, error)
	SetApprovalStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error
	IncrViews(ctx context.Context, id uuid.UUID) (int64, error)
	// Like fails with apperr.ErrAlreadyLiked, Unlike with apperr.ErrNotLiked.
	Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
	Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Comment interface {
	// Create stores the comment and bumps the post's comment counter.
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
	Delete(ctx context.Context, comment model.Comment) error
}

type Store struct {
	User    User
	Club    Club
	Post    Post
	Comment Comment
}

// Cache is the key/value layer in front of Store.
type Cache interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Repository struct {
	Store Store
	Cache Cache
}

func New(store Store, cache Cache) *Repository {
	return &Repository{
		Store: store,
		Cache: cache,
	}
}

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")

var (
	UserUpdatableFields = []string{"full_name", "avatar", "bio", "university"}
	ClubUpdatableFields = []string{"name", "description", "university", "cover_image"}
)

// CheckUpdates rejects updates touching columns outside allowed.
func CheckUpdates(updates map[string]interface{}, allowed []string) error {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, field := range allowed {
		allowedSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedSet[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	return nil
}
