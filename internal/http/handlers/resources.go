package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindtrack-backend/internal/http/response"
	"github.com/yungbote/mindtrack-backend/internal/services"
)

type ResourceHandler struct{}

func NewResourceHandler() *ResourceHandler { return &ResourceHandler{} }

// GET /resources/emergency (public)
func (h *ResourceHandler) Emergency(c *gin.Context) {
	response.RespondOK(c, gin.H{"contacts": services.EmergencyContacts()})
}
