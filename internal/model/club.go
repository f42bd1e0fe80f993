package model

import (
	"time"

	"github.com/google/uuid"
)

type Club struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	University  string    `json:"university"`
	CoverImage  string    `json:"coverImage"`
	Admins      IDSet     `json:"admins"`
	Members     IDSet     `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Club) IsAdmin(userID uuid.UUID) bool {
	return c != nil && c.Admins.Has(userID)
}

func (c *Club) IsMember(userID uuid.UUID) bool {
	return c != nil && c.Members.Has(userID)
}

// IsSoleAdmin reports whether userID is the only entry of the admin set.
func (c *Club) IsSoleAdmin(userID uuid.UUID) bool {
	return c.IsAdmin(userID) && c.Admins.Len() == 1
}

func (c *Club) Summary() ClubSummary {
	return ClubSummary{
		ID:   c.ID,
		Name: c.Name,
	}
}

type ClubSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (c ClubSummary) RefID() uuid.UUID {
	return c.ID
}

// FullClub is a club together with the posts the requester may see.
type FullClub struct {
	Club  *Club   `json:"club"`
	Posts []*Post `json:"posts"`
}
