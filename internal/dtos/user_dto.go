package dtos

import "github.com/justsurfingit/joblocal/internal/models"

type ProfileUpdateRequest struct {
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        *models.Address `json:"address"`
	Bio            string          `json:"bio"`
	BusinessName   string          `json:"businessName"`
	ProfilePicture string          `json:"profilePicture"`
}

type UserDashboard struct {
	User        *models.User         `json:"user"`
	AppliedJobs []models.Application `json:"appliedJobs"`
	SavedJobs   []models.Job         `json:"savedJobs"`
}

type OwnerStats struct {
	TotalJobs       int   `json:"totalJobs"`
	ActiveJobs      int   `json:"activeJobs"`
	TotalApplicants int64 `json:"totalApplicants"`
}

type OwnerDashboard struct {
	Owner              *models.User         `json:"owner"`
	Jobs               []models.Job         `json:"jobs"`
	RecentApplications []models.Application `json:"recentApplications"`
	Stats              OwnerStats           `json:"stats"`
}
