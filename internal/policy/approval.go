package policy

import (
	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/google/uuid"
)

// InitialApproval is the approval status of a post created by authorID in club.
// Club admins publish directly; everyone else waits for review.
func InitialApproval(club *model.Club, authorID uuid.UUID) model.ApprovalStatus {
	if club.IsAdmin(authorID) {
		return model.ApprovalApproved
	}
	return model.ApprovalPending
}

// PostEdit carries the fields an author wants to change. Nil fields are kept.
type PostEdit struct {
	Title      *string
	Content    *string
	Excerpt    *string
	CoverImage *string
	Status     *model.Status
	Visibility *model.Visibility
	Tags       []string
}

func (e PostEdit) Validate() error {
	if e.Status != nil && !e.Status.Valid() {
		return apperr.ErrInvalidStatus
	}
	if e.Visibility != nil && !e.Visibility.Valid() {
		return apperr.ErrInvalidVisibility
	}
	return nil
}

// ContentChanged reports whether the edit alters title, content or excerpt.
func (e PostEdit) ContentChanged(post *model.Post) bool {
	return changed(e.Title, post.Title) ||
		changed(e.Content, post.Content) ||
		changed(e.Excerpt, post.Excerpt)
}

func changed(next *string, current string) bool {
	return next != nil && *next != current
}

// ApplyEdit returns post with edit applied and reports whether the edit sent
// it back to review. Only content changes by a non-admin author reset approval,
// and a rejected post stays rejected until an admin decides again.
func ApplyEdit(post model.Post, edit PostEdit, authorIsAdmin bool) (model.Post, bool) {
	resubmitted := edit.ContentChanged(&post) && !authorIsAdmin && post.ApprovalStatus != model.ApprovalRejected

	if edit.Title != nil {
		post.Title = *edit.Title
	}
	if edit.Content != nil {
		post.Content = *edit.Content
	}
	if edit.Excerpt != nil {
		post.Excerpt = *edit.Excerpt
	}
	if edit.CoverImage != nil {
		post.CoverImage = *edit.CoverImage
	}
	if edit.Status != nil {
		post.Status = *edit.Status
	}
	if edit.Visibility != nil {
		post.Visibility = *edit.Visibility
	}
	if edit.Tags != nil {
		post.Tags = edit.Tags
	}

	if resubmitted {
		post.ApprovalStatus = model.ApprovalPending
	}

	return post, resubmitted
}

// Decision validates an admin's approval decision. Only approved and rejected
// are decisions; pending is reached through edits alone.
func Decision(status model.ApprovalStatus) (model.ApprovalStatus, error) {
	if status != model.ApprovalApproved && status != model.ApprovalRejected {
		return "", apperr.ErrInvalidApprovalStatus
	}
	return status, nil
}
