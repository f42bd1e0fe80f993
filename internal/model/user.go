package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	University   string    `json:"university"`
	AdminOf      IDSet     `json:"adminOfClubs"`
	JoinedClubs  IDSet     `json:"joinedClubs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CachedUser is the subset of a user kept in redis to resolve requesters.
// It carries the password hash-free profile plus club sets.
type CachedUser struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"fullName"`
	Avatar      string    `json:"avatar"`
	AdminOf     IDSet     `json:"adminOfClubs"`
	JoinedClubs IDSet     `json:"joinedClubs"`
}

func (u *User) Cached() CachedUser {
	return CachedUser{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Avatar:      u.Avatar,
		AdminOf:     u.AdminOf.Clone(),
		JoinedClubs: u.JoinedClubs.Clone(),
	}
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

// UserSummary is the expanded form of a user reference.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

func (u UserSummary) RefID() uuid.UUID {
	return u.ID
}
