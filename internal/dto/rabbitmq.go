package dto

import (
	"time"

	"github.com/google/uuid"
)

// MQPostSubmittedMsg tells club admins a post waits for their review.
type MQPostSubmittedMsg struct {
	PostID    uuid.UUID   `json:"post_id"`
	ClubID    uuid.UUID   `json:"club_id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	AdminIDs  []uuid.UUID `json:"admin_ids"`
	PostTitle string      `json:"post_title"`
	CreatedAt time.Time   `json:"created_at"`
}

// MQPostReviewedMsg tells an author what happened to their post.
type MQPostReviewedMsg struct {
	PostID         uuid.UUID `json:"post_id"`
	AuthorID       uuid.UUID `json:"author_id"`
	ReviewerID     uuid.UUID `json:"reviewer_id"`
	PostTitle      string    `json:"post_title"`
	ApprovalStatus string    `json:"approval_status"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}
