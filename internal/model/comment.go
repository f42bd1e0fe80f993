package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID        `json:"id"`
	PostID    uuid.UUID        `json:"post"`
	Author    Ref[UserSummary] `json:"author"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
}
