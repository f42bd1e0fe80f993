package policy

import (
	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/model"
)

func requireAuth(requester *model.Requester) error {
	if !requester.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	return nil
}

func CanCreatePost(requester *model.Requester, club *model.Club) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if !club.IsMember(requester.ID) {
		return apperr.ErrNotClubMember
	}
	return nil
}

func CanUpdatePost(requester *model.Requester, post *model.Post) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if !requester.Is(post.Author.ID) {
		return apperr.ErrNotPostAuthor
	}
	return nil
}

func CanDeletePost(requester *model.Requester, post *model.Post, club *model.Club) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if !requester.Is(post.Author.ID) && !club.IsAdmin(requester.ID) {
		return apperr.ErrCannotDeletePost
	}
	return nil
}

func CanReviewPost(requester *model.Requester, club *model.Club) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if !club.IsAdmin(requester.ID) {
		return apperr.ErrNotClubAdmin
	}
	return nil
}

// CanLike checks a like (unlike == false) or unlike against the current like set.
func CanLike(requester *model.Requester, post *model.Post, unlike bool) error {
	if err := requireAuth(requester); err != nil {
		return err
	}

	liked := post.Likes.Has(requester.ID)
	if !unlike && liked {
		return apperr.ErrAlreadyLiked
	}
	if unlike && !liked {
		return apperr.ErrNotLiked
	}
	return nil
}

func CanCreateClub(requester *model.Requester) error {
	return requireAuth(requester)
}

func CanUpdateClub(requester *model.Requester, club *model.Club) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if !club.IsAdmin(requester.ID) {
		return apperr.ErrNotClubAdmin
	}
	return nil
}

func CanJoinClub(requester *model.Requester, club *model.Club) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if club.IsMember(requester.ID) {
		return apperr.ErrAlreadyMember
	}
	return nil
}

// CanLeaveClub refuses the sole admin even when other members remain.
func CanLeaveClub(requester *model.Requester, club *model.Club) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if !club.IsMember(requester.ID) {
		return apperr.ErrNotMember
	}
	if club.IsSoleAdmin(requester.ID) {
		return apperr.ErrLastAdmin
	}
	return nil
}

func CanCreateComment(requester *model.Requester) error {
	return requireAuth(requester)
}

func CanDeleteComment(requester *model.Requester, comment *model.Comment) error {
	if err := requireAuth(requester); err != nil {
		return err
	}
	if !requester.Is(comment.Author.ID) {
		return apperr.ErrNotCommentAuthor
	}
	return nil
}
