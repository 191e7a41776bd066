package services

import (
	"context"
	"errors"

	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/repository"
	"gorm.io/gorm"
)

type JobService struct {
	DB   *gorm.DB
	Jobs repository.JobRepository
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB:   db,
		Jobs: repository.NewJobRepository(db),
	}
}

// canManage reports whether u may edit or inspect the job's applicants.
func canManage(u *models.User, job *models.Job) bool {
	return u.IsAdmin() || job.OwnerID == u.ID
}

func (s *JobService) CreateJob(ctx context.Context, owner *models.User, req *dtos.JobCreationRequest) (*models.Job, error) {
	loc := req.Location
	if loc.City == "" || loc.State == "" || loc.Country == "" {
		return nil, ErrLocationRequired
	}

	// creating the job, enum fields fall back to their defaults
	job := &models.Job{
		Title:          req.Title,
		Description:    req.Description,
		Salary:         req.Salary,
		SalaryType:     orDefault(req.SalaryType, "annum"),
		Location:       loc,
		WorkType:       orDefault(req.WorkType, "onsite"),
		JobType:        orDefault(req.JobType, "fulltime"),
		RequiredSkills: req.RequiredSkills,
		OwnerID:        owner.ID,
		Status:         models.JobStatusActive,
		MemberLimit:    req.MemberLimit,
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) ListActive(ctx context.Context) ([]models.Job, error) {
	return s.Jobs.FindActive(ctx)
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// UpdateJob applies the non-empty fields of req over the stored job.
func (s *JobService) UpdateJob(ctx context.Context, u *models.User, id uint, req *dtos.JobUpdateRequest) (*models.Job, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(u, job) {
		return nil, ErrNotAuthorized
	}

	job.Title = orDefault(req.Title, job.Title)
	job.Description = orDefault(req.Description, job.Description)
	if req.Salary != 0 {
		job.Salary = req.Salary
	}
	if req.Location != nil {
		job.Location = models.Location{
			City:    orDefault(req.Location.City, job.Location.City),
			State:   orDefault(req.Location.State, job.Location.State),
			Country: orDefault(req.Location.Country, job.Location.Country),
		}
	}
	job.WorkType = orDefault(req.WorkType, job.WorkType)
	job.JobType = orDefault(req.JobType, job.JobType)
	job.SalaryType = orDefault(req.SalaryType, job.SalaryType)
	if req.RequiredSkills != nil {
		job.RequiredSkills = req.RequiredSkills
	}
	job.Status = orDefault(req.Status, job.Status)
	if req.MemberLimit != nil {
		job.MemberLimit = *req.MemberLimit
	}

	if err := s.Jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, u *models.User, id uint) error {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(u, job) {
		return ErrNotAuthorized
	}
	return s.Jobs.Delete(ctx, id)
}

// ToggleSave adds the job to the user's saved list, or removes it when it is
// already there. It returns the new saved state.
func (s *JobService) ToggleSave(ctx context.Context, u *models.User, jobID uint) (bool, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return false, err
	}
	saved := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM saved_jobs WHERE user_id = ? AND job_id = ?", u.ID, jobID)
		if res.Error != nil || res.RowsAffected > 0 {
			return res.Error
		}
		saved = true
		return tx.Exec("INSERT INTO saved_jobs (user_id, job_id) VALUES (?, ?)", u.ID, jobID).Error
	})
	return saved, err
}

func (s *JobService) AddReview(ctx context.Context, u *models.User, jobID uint, req *dtos.ReviewRequest) (*models.Review, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	review := &models.Review{UserID: u.ID, JobID: jobID, Rating: req.Rating, Comment: req.Comment}
	err := s.DB.WithContext(ctx).Create(review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *JobService) ListReviews(ctx context.Context, jobID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.DB.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ListApplications returns the applications for a job to its owner or an admin.
func (s *JobService) ListApplications(ctx context.Context, u *models.User, jobID uint) ([]models.Application, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !canManage(u, job) {
		return nil, ErrNotAuthorized
	}
	apps := []models.Application{}
	err = s.DB.WithContext(ctx).
		Preload("User", applicantColumns).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
