package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/services"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
	Jobs          *services.JobService
}

func NewNotificationHandler(n *services.NotificationService, j *services.JobService) *NotificationHandler {
	return &NotificationHandler{Notifications: n, Jobs: j}
}

func (h *NotificationHandler) List(c *gin.Context) {
	ns, err := h.Notifications.List(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ns)
}

// MarkRead answers success even for ids that match nothing.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Notifications.MarkRead(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.Notifications.MarkAllRead(c.Request.Context(), currentUser(c)); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "All notifications marked as read")
}

func (h *NotificationHandler) Send(c *gin.Context) {
	var req dtos.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	n, err := h.Notifications.Send(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NotificationResponse{Message: "Notification sent successfully", Notification: n})
}

// JobPosted fans out the announcements for a job the caller just created.
func (h *NotificationHandler) JobPosted(c *gin.Context) {
	var req dtos.JobPostedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	ctx := c.Request.Context()
	job, err := h.Jobs.GetJob(ctx, refID(req.JobID))
	if err != nil {
		fail(c, err)
		return
	}
	ownerName := currentUser(c).Name
	if job.Owner != nil {
		ownerName = job.Owner.Name
	}
	ns, err := h.Notifications.JobPosted(ctx, job, ownerName, req.JobTitle)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NotificationResponse{Message: "Job posted notifications sent successfully", Notifications: ns})
}

func (h *NotificationHandler) NewApplication(c *gin.Context) {
	var req dtos.NewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	if req.ApplicantName == "" {
		req.ApplicantName = currentUser(c).Name
	}
	ns, err := h.Notifications.ApplicationSubmitted(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NotificationResponse{Message: "Application notifications sent successfully", Notifications: ns})
}
