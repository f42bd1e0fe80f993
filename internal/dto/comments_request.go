package dto

import "github.com/google/uuid"

type CreateCommentRequest struct {
	PostID  uuid.UUID `json:"postId"`
	Content string    `json:"content" binding:"required,min=1"`
}
