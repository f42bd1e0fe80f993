// Package policy decides what a requester may see and do with clubs, posts
// and comments, and how a post's approval status moves. It performs no I/O:
// callers load the entities and act on the verdicts.
package policy

import (
	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
)

// CanView decides whether requester (nil when anonymous) may read post.
// club must be the club the post belongs to.
func CanView(requester *model.Requester, post *model.Post, club *model.Club) error {
	if post.ApprovalStatus != model.ApprovalApproved {
		if requester.Authenticated() && (requester.Is(post.Author.ID) || club.IsAdmin(requester.ID)) {
			return nil
		}
		return apperr.ErrAwaitingApproval
	}

	if post.Visibility == model.VisibilityPrivate && !requester.Authenticated() {
		return apperr.ErrLoginToView
	}

	return nil
}

// ListQuery builds the listing predicate for requester: the public feed for
// everyone, plus own posts and posts of administered clubs when signed in.
func ListQuery(requester *model.Requester) model.PostQuery {
	q := model.PostQuery{PublicFeed: true}
	if !requester.Authenticated() {
		return q
	}

	q.AuthorID = requester.ID
	q.ClubIDs = requester.AdminOf.Clone()
	return q
}

// ClubListQuery narrows ListQuery to the posts of a single club.
func ClubListQuery(requester *model.Requester, club *model.Club) model.PostQuery {
	q := ListQuery(requester)
	q.OnlyClubID = club.ID
	if requester.Authenticated() && club.IsAdmin(requester.ID) {
		q.ClubIDs.Add(club.ID)
	}
	return q
}

// PendingQuery selects the posts awaiting review in the clubs requester administers.
func PendingQuery(requester *model.Requester) (model.PostQuery, error) {
	if !requester.Authenticated() {
		return model.PostQuery{}, apperr.ErrUnauthenticated
	}

	return model.PostQuery{
		ClubIDs:        requester.AdminOf.Clone(),
		ApprovalStatus: model.ApprovalPending,
	}, nil
}
