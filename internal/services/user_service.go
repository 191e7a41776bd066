package services

import (
	"context"

	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/repository"
	"gorm.io/gorm"
)

const recentApplicationsLimit = 5

type UserService struct {
	DB   *gorm.DB
	Jobs repository.JobRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, Jobs: repository.NewJobRepository(db)}
}

func (s *UserService) Dashboard(ctx context.Context, u *models.User) (*dtos.UserDashboard, error) {
	db := s.DB.WithContext(ctx)
	out := &dtos.UserDashboard{User: u, AppliedJobs: []models.Application{}, SavedJobs: []models.Job{}}

	err := db.Preload("Job").Preload("Job.Owner", ownerColumns).
		Where("user_id = ?", u.ID).
		Order("created_at DESC").
		Find(&out.AppliedJobs).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("Owner", ownerColumns).
		Joins("JOIN saved_jobs ON saved_jobs.job_id = jobs.id").
		Where("saved_jobs.user_id = ?", u.ID).
		Find(&out.SavedJobs).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) OwnerDashboard(ctx context.Context, u *models.User) (*dtos.OwnerDashboard, error) {
	jobs, err := s.Jobs.FindByOwner(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	out := &dtos.OwnerDashboard{Owner: u, Jobs: jobs, RecentApplications: []models.Application{}}
	if out.Jobs == nil {
		out.Jobs = []models.Job{}
	}

	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
		if j.Status == models.JobStatusActive {
			out.Stats.ActiveJobs++
		}
	}
	out.Stats.TotalJobs = len(jobs)
	if len(ids) == 0 {
		return out, nil
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.Application{}).Where("job_id IN ?", ids).Count(&out.Stats.TotalApplicants).Error; err != nil {
		return nil, err
	}
	err = db.Preload("User", applicantColumns).
		Preload("Job", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Where("job_id IN ?", ids).
		Order("created_at DESC").
		Limit(recentApplicationsLimit).
		Find(&out.RecentApplications).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile applies the non-empty fields of req to u.
func (s *UserService) UpdateProfile(ctx context.Context, u *models.User, req *dtos.ProfileUpdateRequest) (*models.User, error) {
	u.Name = orDefault(req.Name, u.Name)
	u.Phone = orDefault(req.Phone, u.Phone)
	if req.Address != nil {
		u.Address = *req.Address
	}
	u.Bio = orDefault(req.Bio, u.Bio)
	if u.Role == models.RoleOwner {
		u.BusinessName = orDefault(req.BusinessName, u.BusinessName)
	}
	u.ProfilePicture = orDefault(req.ProfilePicture, u.ProfilePicture)

	err := s.DB.WithContext(ctx).Model(u).Select("name", "phone", "address_street", "address_city",
		"address_state", "address_zip_code", "address_country", "bio", "business_name", "profile_picture").
		Updates(u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}
