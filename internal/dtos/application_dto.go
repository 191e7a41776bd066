package dtos

import "github.com/justsurfingit/joblocal/internal/models"

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed interview accepted rejected"`
}

// LimitedUser is what other accounts may see of a user.
type LimitedUser struct {
	ID    uint   `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewLimitedUser(u *models.User) LimitedUser {
	return LimitedUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
