package handler

import (
	"net/http"

	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) postsGet(c *gin.Context) {
	posts, err := h.services.Post.Find(c.Request.Context(), h.getRequester(c))
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetPending(c *gin.Context) {
	posts, err := h.services.Post.FindPending(c.Request.Context(), h.getRequester(c))
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	requester := h.getRequester(c)

	postID, ok := parseID(c, "postID", errInvalidPostID)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), requester, postID)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	isLiked := requester.Authenticated() && post.Likes.Has(requester.ID)

	c.JSON(http.StatusOK, dto.GetPost{
		Post:    post,
		IsLiked: isLiked,
	})
}

func (h *Handler) postsCreate(c *gin.Context) {
	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), h.getRequester(c), input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	message := "Post created successfully"
	if createdPost.ApprovalStatus == model.ApprovalPending {
		message = "Post submitted for approval"
	}

	c.JSON(http.StatusCreated, dto.PostMessage{
		Post:    createdPost,
		Message: message,
	})
}

func (h *Handler) postsUpdate(c *gin.Context) {
	postID, ok := parseID(c, "postID", errInvalidPostID)
	if !ok {
		return
	}

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	updatedPost, resubmitted, err := h.services.Post.Update(c.Request.Context(), h.getRequester(c), postID, input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	message := "Post updated successfully"
	if resubmitted {
		message = "Post updated and submitted for approval"
	}

	c.JSON(http.StatusOK, dto.PostMessage{
		Post:    updatedPost,
		Message: message,
	})
}

func (h *Handler) postsDelete(c *gin.Context) {
	postID, ok := parseID(c, "postID", errInvalidPostID)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), h.getRequester(c), postID); err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post deleted successfully"))
}

func (h *Handler) postsApprove(c *gin.Context) {
	postID, ok := parseID(c, "postID", errInvalidPostID)
	if !ok {
		return
	}

	var input dto.ApprovePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	post, err := h.services.Post.Review(c.Request.Context(), h.getRequester(c), postID, input.ApprovalStatus)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsLike(c *gin.Context) {
	h.postsToggleLike(c, false)
}

func (h *Handler) postsUnlike(c *gin.Context) {
	h.postsToggleLike(c, true)
}

func (h *Handler) postsToggleLike(c *gin.Context, unlike bool) {
	postID, ok := parseID(c, "postID", errInvalidPostID)
	if !ok {
		return
	}

	if err := h.services.Post.Like(c.Request.Context(), h.getRequester(c), postID, unlike); err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
