package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/services"
)

type AdminHandler struct {
	Admin *services.AdminService
}

func NewAdminHandler(a *services.AdminService) *AdminHandler {
	return &AdminHandler{Admin: a}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.Admin.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *AdminHandler) Activity(c *gin.Context) {
	feed, err := h.Admin.Activity(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.Admin.Users(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var req dtos.UserStatusRequest
	if err := bindOptional(c, &req); err != nil {
		badInput(c, err)
		return
	}
	u, err := h.Admin.UpdateUserStatus(c.Request.Context(), idParam(c, "id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) UpdateJobStatus(c *gin.Context) {
	var req dtos.JobModerationRequest
	if err := bindOptional(c, &req); err != nil {
		badInput(c, err)
		return
	}
	job, err := h.Admin.UpdateJobStatus(c.Request.Context(), idParam(c, "id"), req.Action)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Admin.DeleteUser(c.Request.Context(), currentUser(c), idParam(c, "id")); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "User removed successfully")
}

func (h *AdminHandler) DeleteCompany(c *gin.Context) {
	if err := h.Admin.DeleteCompany(c.Request.Context(), idParam(c, "id")); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "Company removed successfully")
}
