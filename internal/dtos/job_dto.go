package dtos

import "github.com/justsurfingit/joblocal/internal/models"

type JobExtractionRequest struct {
	RawHTML string `json:"rawHtml" binding:"required"`
	URL     string `json:"url"`
}

// JobDraft is what the extraction assistant proposes for a new posting.
// Owners review it before sending it to POST /jobs.
type JobDraft struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Salary         float64         `json:"salary"`
	SalaryType     string          `json:"salaryType"`
	Location       models.Location `json:"location"`
	WorkType       string          `json:"workType"`
	JobType        string          `json:"jobType"`
	RequiredSkills []string        `json:"requiredSkills"`
}

type JobCreationRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Location    models.Location `json:"location"`

	// Optional Fields
	Salary         float64  `json:"salary"`
	SalaryType     string   `json:"salaryType" binding:"omitempty,oneof=monthly annum"`
	WorkType       string   `json:"workType" binding:"omitempty,oneof=onsite remote hybrid workFromHome"`
	JobType        string   `json:"jobType" binding:"omitempty,oneof=intern fulltime parttime contract"`
	RequiredSkills []string `json:"requiredSkills"`
	MemberLimit    int      `json:"memberLimit" binding:"min=0"` // 0 means no limit
}

// JobUpdateRequest carries partial overrides. Empty values keep the stored
// field, except memberLimit which may be set to 0 explicitly.
type JobUpdateRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Salary         float64          `json:"salary"`
	SalaryType     string           `json:"salaryType" binding:"omitempty,oneof=monthly annum"`
	Location       *models.Location `json:"location"`
	WorkType       string           `json:"workType" binding:"omitempty,oneof=onsite remote hybrid workFromHome"`
	JobType        string           `json:"jobType" binding:"omitempty,oneof=intern fulltime parttime contract"`
	RequiredSkills []string         `json:"requiredSkills"`
	Status         string           `json:"status" binding:"omitempty,oneof=active inactive closed"`
	MemberLimit    *int             `json:"memberLimit" binding:"omitempty,min=0"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type SaveJobResponse struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}
