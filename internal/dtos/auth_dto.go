package dtos

import "github.com/justsurfingit/joblocal/internal/models"

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"omitempty,oneof=jobseeker owner admin"`
	BusinessName string `json:"businessName"`
	AdminCode    string `json:"adminCode"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FirebaseLoginRequest is the identity the browser obtained from Firebase.
type FirebaseLoginRequest struct {
	UID      string `json:"uid" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type SendOTPResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

// VerifyOTPRequest fields are checked by the service so a missing one gets
// the dedicated message.
type VerifyOTPRequest struct {
	Phone  string       `json:"phone"`
	OTP    string       `json:"otp"`
	UserID models.RefID `json:"userId"`
}

// AuthResponse is returned by every successful login or signup.
type AuthResponse struct {
	ID             uint   `json:"_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	BusinessName   string `json:"businessName,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Token          string `json:"token"`
}

func NewAuthResponse(u *models.User, token string) AuthResponse {
	return AuthResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		BusinessName:   u.BusinessName,
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
		Token:          token,
	}
}

type ProfileResponse struct {
	ID             uint   `json:"_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Phone          string `json:"phone,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type LoginHistoryResponse struct {
	UserID    uint              `json:"userId"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	LoginLogs []models.LoginLog `json:"loginLogs"`
}
