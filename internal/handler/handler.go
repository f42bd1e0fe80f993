package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const requesterKey = "requester"

type Handler struct {
	logger   *zap.Logger
	services *service.Service
}

func New(logger *zap.Logger, services *service.Service) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(h.requestLogger)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{http.MethodPost, http.MethodGet, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", h.usersRegister)
			users.POST("/login", h.usersLogin)
			users.GET("/profile", h.authMiddleware, h.usersGetProfile)
			users.PUT("/profile", h.authMiddleware, h.usersUpdateProfile)
			users.GET("/profile/:username", h.usersGetByUsername)
		}

		clubs := v1.Group("/clubs")
		{
			clubs.GET("", h.clubsGetAll)
			clubs.POST("", h.authMiddleware, h.clubsCreate)

			club := clubs.Group("/:clubID")
			{
				club.GET("", h.notRequiredAuthMiddleware, h.clubsGetByID)
				club.PUT("", h.authMiddleware, h.clubsUpdate)
				club.POST("/join", h.authMiddleware, h.clubsJoin)
				club.POST("/leave", h.authMiddleware, h.clubsLeave)
			}
		}

		posts := v1.Group("/posts")
		{
			posts.GET("", h.notRequiredAuthMiddleware, h.postsGet)
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("/admin/pending", h.authMiddleware, h.postsGetPending)

			posts.POST("/comment", h.authMiddleware, h.commentsCreate)
			posts.DELETE("/comment/:commentID", h.authMiddleware, h.commentsDelete)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.PUT("", h.authMiddleware, h.postsUpdate)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.PUT("/approve", h.authMiddleware, h.postsApprove)
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.POST("/unlike", h.authMiddleware, h.postsUnlike)
				post.GET("/comments", h.notRequiredAuthMiddleware, h.commentsGet)
			}
		}
	}

	return r
}

func (h *Handler) getRequesterFromClaims(ctx context.Context, claims jwt.MapClaims) (*model.Requester, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, errNotAuthorized
	}

	user, err := h.services.UserCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user.Requester(), nil
}

// getRequester returns nil for anonymous requests.
func (h *Handler) getRequester(c *gin.Context) *model.Requester {
	value, exists := c.Get(requesterKey)
	if !exists {
		return nil
	}

	requester, ok := value.(*model.Requester)
	if !ok {
		return nil
	}

	return requester
}

func parseID(c *gin.Context, param string, invalid error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, dtoError(invalid))
		return uuid.Nil, false
	}
	return id, true
}
