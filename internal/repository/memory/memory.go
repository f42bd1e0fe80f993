// Package memory is a process-local backend for the repository interfaces.
// It backs the "memory" storage mode and the service and handler tests.
package memory

import (
	"sort"
	"sync"

	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/google/uuid"
)

// db guards every map with one lock, which makes each repository call atomic.
type db struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*model.User
	clubs    map[uuid.UUID]*model.Club
	posts    map[uuid.UUID]*model.Post
	comments map[uuid.UUID]*model.Comment
}

func New() repository.Store {
	d := &db{
		users:    make(map[uuid.UUID]*model.User),
		clubs:    make(map[uuid.UUID]*model.Club),
		posts:    make(map[uuid.UUID]*model.Post),
		comments: make(map[uuid.UUID]*model.Comment),
	}

	return repository.Store{
		User:    &userRepo{db: d},
		Club:    &clubRepo{db: d},
		Post:    &postRepo{db: d},
		Comment: &commentRepo{db: d},
	}
}

// userClubs derives a user's club sets from club membership. Callers hold mu.
func (d *db) userClubs(userID uuid.UUID) (adminOf model.IDSet, joined model.IDSet) {
	adminOf, joined = model.NewIDSet(), model.NewIDSet()
	for _, club := range d.clubs {
		if club.Admins.Has(userID) {
			adminOf.Add(club.ID)
		}
		if club.Members.Has(userID) {
			joined.Add(club.ID)
		}
	}
	return adminOf, joined
}

func (d *db) userCopy(user *model.User) *model.User {
	u := *user
	u.AdminOf, u.JoinedClubs = d.userClubs(user.ID)
	return &u
}

func clubCopy(club *model.Club) *model.Club {
	c := *club
	c.Admins = club.Admins.Clone()
	c.Members = club.Members.Clone()
	return &c
}

// expandPost copies post and expands its author and club references.
func (d *db) expandPost(post *model.Post) *model.Post {
	p := *post
	p.Likes = post.Likes.Clone()
	p.Tags = append([]string(nil), post.Tags...)

	if author, ok := d.users[post.Author.ID]; ok {
		p.Author = model.ExpandedRef(author.Summary())
	}
	if club, ok := d.clubs[post.Club.ID]; ok {
		p.Club = model.ExpandedRef(club.Summary())
	}
	return &p
}

func (d *db) expandComment(comment *model.Comment) *model.Comment {
	c := *comment
	if author, ok := d.users[comment.Author.ID]; ok {
		c.Author = model.ExpandedRef(author.Summary())
	}
	return &c
}

func newestFirst(posts []*model.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID.String() > posts[j].ID.String()
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
