package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/repository"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const activityLimit = 10

type AdminService struct {
	DB   *gorm.DB
	Jobs repository.JobRepository
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db, Jobs: repository.NewJobRepository(db)}
}

func (s *AdminService) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var n int64
	tx := s.DB.WithContext(ctx).Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	err := tx.Count(&n).Error
	return n, err
}

// Stats counts accounts, jobs and applications on every call.
func (s *AdminService) Stats(ctx context.Context) (*dtos.AdminStats, error) {
	var st dtos.AdminStats
	counts := []struct {
		dst   *int64
		model any
		query string
		arg   any
	}{
		{&st.Users.Total, &models.User{}, "", nil},
		{&st.Users.JobSeekers, &models.User{}, "role = ?", models.RoleJobseeker},
		{&st.Users.Owners, &models.User{}, "role = ?", models.RoleOwner},
		{&st.Users.Admins, &models.User{}, "role = ?", models.RoleAdmin},
		{&st.Jobs.Total, &models.Job{}, "", nil},
		{&st.Jobs.Active, &models.Job{}, "status = ?", models.JobStatusActive},
		{&st.Jobs.Inactive, &models.Job{}, "status = ?", models.JobStatusInactive},
		{&st.Jobs.Closed, &models.Job{}, "status = ?", models.JobStatusClosed},
		{&st.Applications.Total, &models.Application{}, "", nil},
	}
	for _, c := range counts {
		n, err := s.count(ctx, c.model, c.query, c.arg)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return &st, nil
}

// Activity merges the newest registrations, postings and applications into
// one feed, newest first.
func (s *AdminService) Activity(ctx context.Context) ([]dtos.Activity, error) {
	db := s.DB.WithContext(ctx)

	var users []models.User
	if err := db.Order("created_at DESC").Limit(activityLimit).Find(&users).Error; err != nil {
		return nil, err
	}
	var jobs []models.Job
	if err := db.Preload("Owner", ownerColumns).Order("created_at DESC").Limit(activityLimit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	var apps []models.Application
	if err := db.Preload("Job").Order("created_at DESC").Limit(activityLimit).Find(&apps).Error; err != nil {
		return nil, err
	}

	feed := make([]dtos.Activity, 0, len(users)+len(jobs)+len(apps))
	for _, u := range users {
		feed = append(feed, dtos.Activity{
			ID: fmt.Sprintf("user_%d", u.ID), Action: "User registered", User: u.Name, Timestamp: u.CreatedAt,
		})
	}
	for _, j := range jobs {
		a := dtos.Activity{ID: fmt.Sprintf("job_%d", j.ID), Action: "Job posted", Job: j.Title, Timestamp: j.CreatedAt}
		if j.Owner != nil {
			a.Company = orDefault(j.Owner.BusinessName, j.Owner.Name)
		}
		feed = append(feed, a)
	}
	for _, app := range apps {
		a := dtos.Activity{
			ID: fmt.Sprintf("application_%d", app.ID), Action: "Application submitted", User: app.UserInfo.Name, Timestamp: app.CreatedAt,
		}
		if app.Job != nil {
			a.Job = app.Job.Title
		}
		feed = append(feed, a)
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > activityLimit {
		feed = feed[:activityLimit]
	}
	return feed, nil
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (s *AdminService) findUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserStatus suspends or reactivates an account. An empty status
// leaves it unchanged.
func (s *AdminService) UpdateUserStatus(ctx context.Context, id uint, status string) (*models.User, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == "" || status == u.Status {
		return u, nil
	}
	if err := s.DB.WithContext(ctx).Model(u).Update("status", status).Error; err != nil {
		return nil, err
	}
	u.Status = status
	log.WithFields(log.Fields{"user": u.ID, "status": status}).Info("account status changed")
	return u, nil
}

// UpdateJobStatus flags a job (inactive) or removes it from listings (closed).
// Other actions return the job untouched.
func (s *AdminService) UpdateJobStatus(ctx context.Context, id uint, action string) (*models.Job, error) {
	job, err := s.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	switch action {
	case "flag":
		job.Status = models.JobStatusInactive
	case "remove":
		job.Status = models.JobStatusClosed
	default:
		return job, nil
	}
	if err := s.DB.WithContext(ctx).Model(&models.Job{}).Where("id = ?", job.ID).Update("status", job.Status).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// removeAccount deletes u and everything that belongs to it: posted jobs
// with their applications, the user's own applications, reviews, saved jobs
// and login history.
func (s *AdminService) removeAccount(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Jobs.WithTx(tx).DeleteByOwner(ctx, u.ID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM saved_jobs WHERE user_id = ?", u.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.LoginLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, u.ID).Error
	})
}

func (s *AdminService) DeleteUser(ctx context.Context, admin *models.User, id uint) error {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if u.ID == admin.ID {
		return ErrSelfDelete
	}
	if err := s.removeAccount(ctx, u); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user": u.ID, "by": admin.ID}).Info("account deleted")
	return nil
}

// DeleteCompany removes an employer account and its postings.
func (s *AdminService) DeleteCompany(ctx context.Context, id uint) error {
	u, err := s.findUser(ctx, id)
	if errors.Is(err, ErrUserNotFound) || (err == nil && u.Role != models.RoleOwner) {
		return ErrCompanyNotFound
	}
	if err != nil {
		return err
	}
	return s.removeAccount(ctx, u)
}
