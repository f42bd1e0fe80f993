package handler

import (
	"errors"
	"net/http"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized    = errors.New("user is not authorized")
	errInvalidPostID    = errors.New("invalid post ID")
	errInvalidClubID    = errors.New("invalid club ID")
	errInvalidCommentID = errors.New("invalid comment ID")
)

var statusByKind = map[error]int{
	apperr.ErrNotFound:        http.StatusNotFound,
	apperr.ErrUnauthenticated: http.StatusUnauthorized,
	apperr.ErrForbidden:       http.StatusForbidden,
	apperr.ErrConflict:        http.StatusConflict,
	apperr.ErrValidation:      http.StatusBadRequest,
	apperr.ErrInternal:        http.StatusInternalServerError,
}

func dtoError(err error) dto.BasicResponse {
	return dto.NewBasicResponse(false, err.Error())
}

func statusOf(err error) int {
	if errors.Is(err, errNotAuthorized) {
		return http.StatusUnauthorized
	}
	return statusByKind[apperr.Kind(err)]
}

// newErrorResponse writes err with the status of its kind. Internal errors
// never carry their cause to the client.
func (h *Handler) newErrorResponse(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		err = apperr.ErrInternal
	}
	c.JSON(status, dtoError(err))
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	h.newErrorResponse(c, err)
	c.Abort()
}
