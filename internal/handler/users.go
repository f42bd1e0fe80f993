package handler

import (
	"net/http"

	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) usersRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	response, err := h.services.User.Register(c.Request.Context(), input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *Handler) usersLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	response, err := h.services.User.Login(c.Request.Context(), input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) usersGetProfile(c *gin.Context) {
	requester := h.getRequester(c)

	user, err := h.services.User.FindByID(c.Request.Context(), requester.ID)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersUpdateProfile(c *gin.Context) {
	requester := h.getRequester(c)

	var input dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	user, err := h.services.User.UpdateProfile(c.Request.Context(), requester.ID, input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersGetByUsername(c *gin.Context) {
	user, err := h.services.User.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
