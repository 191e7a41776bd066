package dtos

import "github.com/justsurfingit/joblocal/internal/models"

type SendNotificationRequest struct {
	UserID        models.RefID `json:"userId"`
	RecipientRole string       `json:"recipientRole" binding:"omitempty,oneof=jobseeker owner admin"`
	Type          string       `json:"type" binding:"required"`
	Title         string       `json:"title" binding:"required"`
	Message       string       `json:"message" binding:"required"`
	JobID         models.RefID `json:"jobId"`
	ApplicationID models.RefID `json:"applicationId"`
}

type JobPostedRequest struct {
	JobID    models.RefID `json:"jobId" binding:"required"`
	JobTitle string       `json:"jobTitle"`
}

type NewApplicationRequest struct {
	JobID         models.RefID `json:"jobId" binding:"required"`
	JobTitle      string       `json:"jobTitle"`
	ApplicantName string       `json:"applicantName"`
	OwnerID       models.RefID `json:"ownerId" binding:"required"`
	ApplicationID models.RefID `json:"applicationId"`
}

type NotificationResponse struct {
	Message       string                 `json:"message"`
	Notification  *models.Notification   `json:"notification,omitempty"`
	Notifications []*models.Notification `json:"notifications,omitempty"`
}
