package handler

import (
	"os"

	"github.com/CampusConnections/campus-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

// notRequiredAuthMiddleware resolves the requester when a valid token is
// present and lets the request through anonymously otherwise.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.Next()
		return
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		c.Next()
		return
	}

	requester, err := h.getRequesterFromClaims(c.Request.Context(), claims)
	if err != nil {
		c.Next()
		return
	}

	c.Set(requesterKey, requester)

	c.Next()
}
