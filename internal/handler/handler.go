package handler

import (
	"context"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/service"
	"github.com/CodeSphere/api-service/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type Handler struct {
	services      *service.Service
	accessSecret  []byte
	webhookSecret string
}

func New(services *service.Service, accessSecret []byte, webhookSecret string) *Handler {
	return &Handler{
		services:      services,
		accessSecret:  accessSecret,
		webhookSecret: webhookSecret,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.POST("/webhooks", h.webhooksReceive)

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.GET("", h.postsFeed)
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.POST("/uploadImage", h.authMiddleware, h.postsUploadImage)
			posts.GET("/trending", h.postsTrending)
			posts.GET("/search", h.postsSearchByTitle)
			posts.GET("/author/:userID", h.optionalAuthMiddleware, h.postsGetByAuthor)
			posts.GET("/my", h.authMiddleware, h.postsGetMy)
			posts.GET("/liked", h.authMiddleware, h.postsGetLiked)
			posts.GET("/saved", h.authMiddleware, h.postsGetSaved)

			post := posts.Group("/:postID")
			{
				post.GET("", h.optionalAuthMiddleware, h.postsGetByID)
				post.PATCH("", h.authMiddleware, h.postsEdit)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.DELETE("/unlike", h.authMiddleware, h.postsUnlike)
				post.GET("/isLiked", h.authMiddleware, h.postsIsLiked)
				post.GET("/likes", h.postsGetLikers)
				post.POST("/save", h.authMiddleware, h.postsSave)
				post.DELETE("/unsave", h.authMiddleware, h.postsUnsave)
			}
		}

		comments := v1.Group("/comments")
		{
			comments.POST("", h.authMiddleware, h.commentsCreate)

			postComments := comments.Group("/:postID")
			{
				postComments.GET("", h.commentsGet)

				comment := postComments.Group("/:commentID")
				{
					comment.GET("/replies", h.commentsGetReplies)
					comment.PATCH("", h.authMiddleware, h.commentsEdit)
					comment.DELETE("", h.authMiddleware, h.commentsDelete)
					comment.POST("/like", h.authMiddleware, h.commentsLike)
					comment.DELETE("/unlike", h.authMiddleware, h.commentsUnlike)
					comment.GET("/isLiked", h.authMiddleware, h.commentsIsLiked)
				}
			}
		}

		follows := v1.Group("/follows")
		{
			follows.POST("/:userID", h.authMiddleware, h.followsCreate)
			follows.DELETE("/:userID", h.authMiddleware, h.followsDelete)
			follows.GET("/:userID/followers", h.followsGetFollowers)
			follows.GET("/:userID/following", h.followsGetFollowing)
		}

		users := v1.Group("/users")
		{
			users.GET("/me/profile-complete", h.authMiddleware, h.usersProfileComplete)
			users.GET("/:userID", h.optionalAuthMiddleware, h.usersGetProfile)
		}

		notifications := v1.Group("/notifications", h.authMiddleware)
		{
			notifications.GET("", h.notificationsGet)
			notifications.GET("/unreadCount", h.notificationsUnreadCount)
			notifications.PATCH("/readAll", h.notificationsReadAll)
			notifications.PATCH("/:notificationID/read", h.notificationsRead)
		}
	}

	return r
}

// getUserDataFromAccessToken verifies the bearer token and resolves the
// session's external user id to the local cached user record.
func (h *Handler) getUserDataFromAccessToken(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil {
		return nil, err
	}

	externalID, ok := claims["sub"].(string)
	if !ok || externalID == "" {
		return nil, errNotAuthorized
	}

	user, err := h.services.UserCache.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (h *Handler) getCachedUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get("cached-user")

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}
