package handler

import (
	"net/http"

	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) clubsGetAll(c *gin.Context) {
	clubs, err := h.services.Club.FindAll(c.Request.Context())
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, clubs)
}

func (h *Handler) clubsGetByID(c *gin.Context) {
	clubID, ok := parseID(c, "clubID", errInvalidClubID)
	if !ok {
		return
	}

	club, err := h.services.Club.FindByID(c.Request.Context(), h.getRequester(c), clubID)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, club)
}

func (h *Handler) clubsCreate(c *gin.Context) {
	var input dto.CreateClubRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	club, err := h.services.Club.Create(c.Request.Context(), h.getRequester(c), input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, club)
}

func (h *Handler) clubsUpdate(c *gin.Context) {
	clubID, ok := parseID(c, "clubID", errInvalidClubID)
	if !ok {
		return
	}

	var input dto.UpdateClubRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dtoError(err))
		return
	}

	club, err := h.services.Club.Update(c.Request.Context(), h.getRequester(c), clubID, input)
	if err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, club)
}

func (h *Handler) clubsJoin(c *gin.Context) {
	clubID, ok := parseID(c, "clubID", errInvalidClubID)
	if !ok {
		return
	}

	if err := h.services.Club.Join(c.Request.Context(), h.getRequester(c), clubID); err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "joined club successfully"))
}

func (h *Handler) clubsLeave(c *gin.Context) {
	clubID, ok := parseID(c, "clubID", errInvalidClubID)
	if !ok {
		return
	}

	if err := h.services.Club.Leave(c.Request.Context(), h.getRequester(c), clubID); err != nil {
		h.newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "left club successfully"))
}
