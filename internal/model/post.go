package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

type Post struct {
	ID             uuid.UUID        `json:"id"`
	Author         Ref[UserSummary] `json:"author"`
	Club           Ref[ClubSummary] `json:"club"`
	Title          string           `json:"title"`
	Content        string           `json:"content"`
	Excerpt        string           `json:"excerpt"`
	CoverImage     string           `json:"coverImage"`
	Status         Status           `json:"status"`
	ApprovalStatus ApprovalStatus   `json:"approvalStatus"`
	Visibility     Visibility       `json:"visibility"`
	Tags           []string         `json:"tags"`
	Likes          IDSet            `json:"likes"`
	Comments       int64            `json:"comments"`
	Views          int64            `json:"views"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// PostAccess holds the columns a view decision depends on.
type PostAccess struct {
	AuthorID       uuid.UUID
	ClubID         uuid.UUID
	Status         Status
	ApprovalStatus ApprovalStatus
	Visibility     Visibility
}

// Matches reports whether p still carries the gate columns of a.
func (a PostAccess) Matches(p *Post) bool {
	return p.Author.ID == a.AuthorID &&
		p.Club.ID == a.ClubID &&
		p.Status == a.Status &&
		p.ApprovalStatus == a.ApprovalStatus &&
		p.Visibility == a.Visibility
}

// InPublicFeed reports whether the post is visible to everyone in listings.
func (p *Post) InPublicFeed() bool {
	return p.ApprovalStatus == ApprovalApproved &&
		p.Visibility == VisibilityPublic &&
		p.Status == StatusPublished
}

// PostQuery selects posts for listings. Posts match when they fall into any
// of the buckets (public feed, authored by AuthorID, belonging to ClubIDs)
// and pass every narrowing field that is set.
type PostQuery struct {
	PublicFeed bool
	AuthorID   uuid.UUID
	ClubIDs    IDSet

	OnlyClubID     uuid.UUID
	ApprovalStatus ApprovalStatus
}

// Empty reports whether the query has no bucket and can match nothing.
func (q PostQuery) Empty() bool {
	return !q.PublicFeed && q.AuthorID == uuid.Nil && q.ClubIDs.Len() == 0
}

func (q PostQuery) Matches(p *Post) bool {
	inBucket := (q.PublicFeed && p.InPublicFeed()) ||
		(q.AuthorID != uuid.Nil && p.Author.ID == q.AuthorID) ||
		q.ClubIDs.Has(p.Club.ID)
	if !inBucket {
		return false
	}

	if q.OnlyClubID != uuid.Nil && p.Club.ID != q.OnlyClubID {
		return false
	}
	if q.ApprovalStatus != "" && p.ApprovalStatus != q.ApprovalStatus {
		return false
	}

	return true
}
