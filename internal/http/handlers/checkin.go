package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindtrack-backend/internal/http/response"
	"github.com/yungbote/mindtrack-backend/internal/services"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

type CheckInHandler struct {
	checkIns services.CheckInService
}

func NewCheckInHandler(checkIns services.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkIns: checkIns}
}

// POST /checkins
// body: { "mood": 1-5, "stress": 0-10, "sleep": 1-5, "energy": 0-10, "social": 1-5, "timestamp"?: RFC3339 }
func (h *CheckInHandler) Submit(c *gin.Context) {
	var raw wellness.RawCheckIn
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.checkIns.Submit(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err, "checkin_failed")
		return
	}
	response.RespondCreated(c, res)
}

// GET /checkins?limit=N
func (h *CheckInHandler) List(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		response.Error(c, err, "invalid_request")
		return
	}
	rows, err := h.checkIns.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err, "list_checkins_failed")
		return
	}
	response.RespondOK(c, gin.H{"check_ins": rows})
}

// GET /checkins/:id
func (h *CheckInHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err, "invalid_request")
		return
	}
	row, err := h.checkIns.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "get_checkin_failed")
		return
	}
	response.RespondOK(c, gin.H{"check_in": row})
}
