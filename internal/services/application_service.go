package services

import (
	"bytes"
	"context"
	"errors"

	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/repository"
	"github.com/justsurfingit/joblocal/internal/storage"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ResumeUpload is a resume file received with an application.
type ResumeUpload struct {
	Name string
	Data []byte
}

func applicantColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "role", "phone", "bio",
		"address_street", "address_city", "address_state", "address_zip_code", "address_country")
}

func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "phone", "business_name")
}

type ApplicationService struct {
	DB            *gorm.DB
	Jobs          repository.JobRepository
	Notifications *NotificationService
	Storage       storage.Storage
}

func NewApplicationService(db *gorm.DB, notifications *NotificationService, store storage.Storage) *ApplicationService {
	return &ApplicationService{
		DB:            db,
		Jobs:          repository.NewJobRepository(db),
		Notifications: notifications,
		Storage:       store,
	}
}

// Apply records u's application to a job. The applicant counter moves in the
// same transaction as the insert, so the cap holds under concurrent applies.
func (s *ApplicationService) Apply(ctx context.Context, u *models.User, jobID uint, coverLetter string, resume *ResumeUpload) (*models.Application, error) {
	job, err := s.Jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.MemberLimit > 0 && job.CurrentApplicants >= job.MemberLimit {
		return nil, ErrLimitReached
	}

	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", u.ID, jobID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyApplied
	}

	app := &models.Application{
		UserID:      u.ID,
		JobID:       jobID,
		CoverLetter: coverLetter,
		UserInfo: models.ApplicantInfo{
			Name:    u.Name,
			Email:   u.Email,
			Phone:   u.Phone,
			Address: u.Address,
		},
		Status: models.ApplicationPending,
	}
	if resume != nil && len(resume.Data) > 0 && s.Storage != nil {
		path, err := s.Storage.Save(ctx, resume.Name, bytes.NewReader(resume.Data))
		if err != nil {
			return nil, err
		}
		app.ResumeFile = path
		if text, err := storage.ExtractText(resume.Data); err != nil {
			log.WithError(err).WithField("file", path).Debug("resume text not extracted")
		} else {
			app.ResumeText = text
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyApplied
			}
			return err
		}
		ok, err := s.Jobs.WithTx(tx).IncrementIfBelowLimit(ctx, jobID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLimitReached
		}
		return nil
	})
	if err != nil {
		if app.ResumeFile != "" {
			if derr := s.Storage.Delete(ctx, app.ResumeFile); derr != nil {
				log.WithError(derr).WithField("file", app.ResumeFile).Warn("failed to remove orphaned resume")
			}
		}
		return nil, err
	}

	if s.Notifications != nil {
		_, nerr := s.Notifications.ApplicationSubmitted(ctx, &dtos.NewApplicationRequest{
			JobID:         models.RefOf(job.ID),
			JobTitle:      job.Title,
			ApplicantName: u.Name,
			OwnerID:       models.RefOf(job.OwnerID),
			ApplicationID: models.RefOf(app.ID),
		})
		if nerr != nil {
			log.WithError(nerr).WithField("application", app.ID).Warn("failed to send application notifications")
		}
	}
	return app, nil
}

func (s *ApplicationService) load(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := s.DB.WithContext(ctx).
		Preload("User", applicantColumns).
		Preload("Job").
		Preload("Job.Owner", ownerColumns).
		First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func ownsJob(u *models.User, app *models.Application) bool {
	return app.Job != nil && app.Job.OwnerID == u.ID
}

func (s *ApplicationService) Get(ctx context.Context, u *models.User, id uint) (*models.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() && app.UserID != u.ID && !ownsJob(u, app) {
		return nil, unauthorized("Not authorized to view this application")
	}
	return app, nil
}

// UpdateStatus moves an application to status and notifies both parties.
// Notification failures are logged only.
func (s *ApplicationService) UpdateStatus(ctx context.Context, u *models.User, id uint, status string) (*models.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() && !ownsJob(u, app) {
		return nil, unauthorized("Not authorized to update this application")
	}

	if err := s.DB.WithContext(ctx).Model(app).Update("status", status).Error; err != nil {
		return nil, err
	}
	app.Status = status

	if s.Notifications != nil && app.Job != nil {
		ownerName := ""
		if app.Job.Owner != nil {
			ownerName = app.Job.Owner.Name
		}
		if _, err := s.Notifications.StatusChanged(ctx, app, app.Job, ownerName); err != nil {
			log.WithError(err).WithField("application", app.ID).Warn("failed to send status notifications")
		}
	}
	return app, nil
}

func (s *ApplicationService) ListForUser(ctx context.Context, u *models.User, userID uint) ([]models.Application, error) {
	if !u.IsAdmin() && u.ID != userID {
		return nil, unauthorized("Not authorized to view these applications")
	}
	apps := []models.Application{}
	err := s.DB.WithContext(ctx).
		Preload("Job").
		Preload("Job.Owner", ownerColumns).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// Delete removes an application. The job's applicant counter is left as is.
func (s *ApplicationService) Delete(ctx context.Context, u *models.User, id uint) error {
	app, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsAdmin() && app.UserID != u.ID && !ownsJob(u, app) {
		return ErrNotAuthorized
	}
	return s.DB.WithContext(ctx).Delete(&models.Application{}, app.ID).Error
}

// GetUser returns the full account to admins and to the account itself, and
// a limited view to everyone else.
func (s *ApplicationService) GetUser(ctx context.Context, u *models.User, id uint) (any, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() || u.ID == user.ID {
		return &user, nil
	}
	return dtos.NewLimitedUser(&user), nil
}
