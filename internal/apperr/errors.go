// Package apperr holds the error kinds every layer reports. Specific errors
// wrap exactly one kind, so callers branch with errors.Is on the kind.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrInternal        = errors.New("internal server error")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrClubNotFound    = fmt.Errorf("club %w", ErrNotFound)
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)

	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	ErrLoginToView        = fmt.Errorf("you need to login to view this post: %w", ErrUnauthenticated)

	ErrNotClubMember    = fmt.Errorf("you must be a member of this club to create a post: %w", ErrForbidden)
	ErrNotPostAuthor    = fmt.Errorf("user not authorized to update this post: %w", ErrForbidden)
	ErrCannotDeletePost = fmt.Errorf("user not authorized to delete this post: %w", ErrForbidden)
	ErrNotClubAdmin     = fmt.Errorf("only club admins can perform this action: %w", ErrForbidden)
	ErrAwaitingApproval = fmt.Errorf("this post is awaiting approval: %w", ErrForbidden)
	ErrNotCommentAuthor = fmt.Errorf("not authorized to delete this comment: %w", ErrForbidden)

	ErrAlreadyMember     = fmt.Errorf("already a member of this club: %w", ErrConflict)
	ErrNotMember         = fmt.Errorf("not a member of this club: %w", ErrConflict)
	ErrLastAdmin         = fmt.Errorf("cannot leave club as you are the only admin: %w", ErrConflict)
	ErrAlreadyLiked      = fmt.Errorf("post already liked: %w", ErrConflict)
	ErrNotLiked          = fmt.Errorf("post not liked yet: %w", ErrConflict)
	ErrUserAlreadyExists = fmt.Errorf("user with this email or username already exists: %w", ErrConflict)

	ErrInvalidStatus         = fmt.Errorf("status must be draft or published: %w", ErrValidation)
	ErrInvalidVisibility     = fmt.Errorf("visibility must be public or private: %w", ErrValidation)
	ErrInvalidApprovalStatus = fmt.Errorf("approval status must be approved or rejected: %w", ErrValidation)
	ErrInvalidClubRef        = fmt.Errorf("club reference is required: %w", ErrValidation)
)

// Kind returns the kind err wraps, or ErrInternal when it wraps none.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrUnauthenticated, ErrForbidden, ErrConflict, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
