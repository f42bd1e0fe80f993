package dto

import "github.com/CampusConnections/campus-service/internal/model"

type CreatePostRequest struct {
	Title      string                       `json:"title" binding:"required,min=2"`
	Content    string                       `json:"content" binding:"required"`
	Excerpt    string                       `json:"excerpt" binding:"required"`
	CoverImage string                       `json:"coverImage"`
	Club       model.Ref[model.ClubSummary] `json:"club"`
	Status     model.Status                 `json:"status"`
	Visibility model.Visibility             `json:"visibility"`
	Tags       []string                     `json:"tags"`
}

type EditPostRequest struct {
	Title      *string           `json:"title"`
	Content    *string           `json:"content"`
	Excerpt    *string           `json:"excerpt"`
	CoverImage *string           `json:"coverImage"`
	Status     *model.Status     `json:"status"`
	Visibility *model.Visibility `json:"visibility"`
	Tags       []string          `json:"tags"`
}

type ApprovePostRequest struct {
	ApprovalStatus model.ApprovalStatus `json:"approvalStatus" binding:"required"`
}
