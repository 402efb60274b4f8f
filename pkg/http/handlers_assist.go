package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"casakit.xyz/smarthome-service/pkg/assist"
)

type chatRequest struct {
	Message string `json:"message"`
	Context struct {
		History []assist.ChatMessage `json:"history"`
	} `json:"context"`
}

func (rs *RestfulServer) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	result, err := rs.Assist.Chat(c.Request.Context(), req.Message, req.Context.History)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (rs *RestfulServer) ChatStatus(c *gin.Context) {
	status, err := rs.Assist.Status()
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
