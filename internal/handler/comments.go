package handler

import (
	"net/http"

	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), h.getRequester(c), input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	postID, ok := parseID(c, "postID", errInvalidPostID)
	if !ok {
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), h.getRequester(c), postID)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	commentID, ok := parseID(c, "commentID", errInvalidCommentID)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), h.getRequester(c), commentID); err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "comment deleted successfully"))
}
