package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dkorolev/huddle/internal/domain"
	"github.com/dkorolev/huddle/internal/repository"
	"github.com/dkorolev/huddle/internal/service"
)

type MeetingController struct {
	meetings *service.MeetingService
}

func NewMeetingController(meetings *service.MeetingService) *MeetingController {
	return &MeetingController{meetings: meetings}
}

func (c *MeetingController) CreateMeeting(ctx *gin.Context) {
	type createMeetingRequest struct {
		Name string `json:"name"`
	}
	var req createMeetingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	meeting, err := c.meetings.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrMeetingNameTooLong) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"meeting": meeting, "room": meeting.RoomID()})
}

func (c *MeetingController) GetMeeting(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}
	meeting, err := c.meetings.GetByID(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(meetingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"meeting": meeting, "room": meeting.RoomID()})
}

func (c *MeetingController) GetMeetingByLink(ctx *gin.Context) {
	meeting, err := c.meetings.GetByLink(ctx.Request.Context(), ctx.Param("link"))
	if err != nil {
		ctx.JSON(meetingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"meeting": meeting, "room": meeting.RoomID()})
}

func (c *MeetingController) ListMeetings(ctx *gin.Context) {
	meetings, err := c.meetings.List(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

func (c *MeetingController) DeleteMeeting(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}
	if err := c.meetings.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(meetingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func meetingErrStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrMeetingNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMeetingExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
