package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(a *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: a}
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.Applications.Get(c.Request.Context(), currentUser(c), idParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	app, err := h.Applications.UpdateStatus(c.Request.Context(), currentUser(c), idParam(c, "id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListForUser(c *gin.Context) {
	apps, err := h.Applications.ListForUser(c.Request.Context(), currentUser(c), idParam(c, "userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.Applications.Delete(c.Request.Context(), currentUser(c), idParam(c, "id")); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "Application removed")
}

func (h *ApplicationHandler) GetUser(c *gin.Context) {
	u, err := h.Applications.GetUser(c.Request.Context(), currentUser(c), idParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
