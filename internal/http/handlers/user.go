package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindtrack-backend/internal/http/response"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Error(c, err, "get_me_failed")
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /me
// body: { "first_name"?: "...", "last_name"?: "...", "timezone"?: "Europe/Berlin" }
func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Timezone  *string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	me, err := uh.userService.UpdateProfile(c.Request.Context(), services.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Timezone:  req.Timezone,
	})
	if err != nil {
		response.Error(c, err, "update_me_failed")
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
