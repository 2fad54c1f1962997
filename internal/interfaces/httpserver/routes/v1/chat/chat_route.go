package chat

import (
	"github.com/gin-gonic/gin"

	"fitcoach/services/coach-api/internal/interfaces/httpserver/handlers/chathandler"
)

// ChatRoute exposes the coach chat endpoint.
type ChatRoute struct {
	chatHandler *chathandler.ChatHandler
}

func NewChatRoute(chatHandler *chathandler.ChatHandler) *ChatRoute {
	return &ChatRoute{chatHandler: chatHandler}
}

func (chatRoute *ChatRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/chat", chatRoute.chatHandler.PostChat)
}
