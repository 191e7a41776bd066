package models

import (
	"time"
)

const (
	RoleJobseeker = "jobseeker"
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
)

const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

const (
	JobStatusActive   = "active"
	JobStatusInactive = "inactive"
	JobStatusClosed   = "closed"
)

const (
	ApplicationPending   = "pending"
	ApplicationReviewed  = "reviewed"
	ApplicationInterview = "interview"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
)

const (
	LoginTypeEmail    = "email"
	LoginTypeGoogle   = "google"
	LoginTypeFirebase = "firebase"
	LoginTypeOTP      = "otp"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name           string  `gorm:"not null" json:"name"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string  `gorm:"not null" json:"-"`
	Role           string  `gorm:"default:'jobseeker';index" json:"role"`
	Status         string  `gorm:"default:'active'" json:"status"`
	BusinessName   string  `json:"businessName,omitempty"`
	Phone          string  `gorm:"index" json:"phone,omitempty"`
	Address        Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
	Bio            string  `gorm:"type:text" json:"bio,omitempty"`

	IsGoogleAuth   bool   `json:"isGoogleAuth"`
	IsFirebaseAuth bool   `json:"isFirebaseAuth"`
	FirebaseUID    string `json:"firebaseUid,omitempty"`
	GoogleID       string `json:"-"`

	SavedJobs []Job      `gorm:"many2many:saved_jobs;" json:"savedJobs,omitempty"`
	LoginLogs []LoginLog `json:"-"`

	OTP       string     `gorm:"column:otp" json:"-"`
	OTPExpiry *time.Time `gorm:"column:otp_expiry" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// LoginLog is one authentication attempt against an account.
type LoginLog struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	LoginType string    `gorm:"not null" json:"loginType"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title          string   `gorm:"not null" json:"title"`
	Description    string   `gorm:"type:text;not null" json:"description"`
	Salary         float64  `json:"salary"`
	SalaryType     string   `gorm:"default:'annum'" json:"salaryType"`
	Location       Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	WorkType       string   `gorm:"default:'onsite'" json:"workType"`
	JobType        string   `gorm:"default:'fulltime'" json:"jobType"`
	RequiredSkills []string `gorm:"serializer:json" json:"requiredSkills"`

	// Foreign Key
	OwnerID uint  `gorm:"index;not null" json:"ownerId"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Status            string `gorm:"default:'active';index" json:"status"`
	MemberLimit       int    `gorm:"default:0" json:"memberLimit"`
	CurrentApplicants int    `gorm:"default:0" json:"currentApplicants"`
}

// ApplicantInfo is the applicant's contact details as they were when the
// application was submitted.
type ApplicantInfo struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
}

type Application struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint  `gorm:"uniqueIndex:idx_application_user_job;not null" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JobID  uint  `gorm:"uniqueIndex:idx_application_user_job;index;not null" json:"jobId"`
	Job    *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`

	CoverLetter string        `gorm:"type:text" json:"coverLetter"`
	ResumeFile  string        `json:"resumeFile"`
	ResumeText  string        `gorm:"type:text" json:"resumeText,omitempty"`
	UserInfo    ApplicantInfo `gorm:"embedded;embeddedPrefix:user_info_" json:"userInfo"`
	Status      string        `gorm:"default:'pending';index" json:"status"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID  uint   `gorm:"uniqueIndex:idx_review_user_job;not null" json:"userId"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JobID   uint   `gorm:"uniqueIndex:idx_review_user_job;index;not null" json:"jobId"`
	Rating  int    `json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`
}
