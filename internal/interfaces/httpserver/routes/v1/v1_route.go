package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitcoach/services/coach-api/internal/config"
	"fitcoach/services/coach-api/internal/interfaces/httpserver/routes/v1/chat"
)

type V1Route struct {
	chat *chat.ChatRoute
}

func NewV1Route(chat *chat.ChatRoute) *V1Route {
	return &V1Route{chat: chat}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)

	v1Route.chat.RegisterRouter(v1Router)
}

func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": config.Version})
}
