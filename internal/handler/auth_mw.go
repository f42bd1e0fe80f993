package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dtoError(errNotAuthorized))
		return
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dtoError(errNotAuthorized))
		return
	}

	requester, err := h.getRequesterFromClaims(c.Request.Context(), claims)
	if err != nil {
		// A valid token for a user that no longer exists is still unauthorized.
		if apperr.Kind(err) == apperr.ErrNotFound {
			err = errNotAuthorized
		}
		h.abortWithError(c, err)
		return
	}

	c.Set(requesterKey, requester)

	c.Next()
}
