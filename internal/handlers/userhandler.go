package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/services"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(u *services.UserService) *UserHandler {
	return &UserHandler{Users: u}
}

func (h *UserHandler) Dashboard(c *gin.Context) {
	d, err := h.Users.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *UserHandler) OwnerDashboard(c *gin.Context) {
	d, err := h.Users.OwnerDashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dtos.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
