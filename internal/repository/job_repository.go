package repository

import (
	"context"
	"errors"

	"github.com/justsurfingit/joblocal/internal/models"
	"gorm.io/gorm"
)

type JobRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Job, error)
	FindActive(ctx context.Context) ([]models.Job, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uint) error
	DeleteByOwner(ctx context.Context, ownerID uint) error
	IncrementIfBelowLimit(ctx context.Context, id uint) (bool, error)
	WithTx(tx *gorm.DB) JobRepository
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) WithTx(tx *gorm.DB) JobRepository {
	return &jobRepository{db: tx}
}

// ownerColumns limits what a populated owner exposes.
func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "phone", "business_name")
}

// FindByID returns nil, nil when the job does not exist.
func (r *jobRepository) FindByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Preload("Owner", ownerColumns).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindActive(ctx context.Context) ([]models.Job, error) {
	jobs := []models.Job{}
	err := r.db.WithContext(ctx).
		Preload("Owner", ownerColumns).
		Where("status = ?", models.JobStatusActive).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) FindByOwner(ctx context.Context, ownerID uint) ([]models.Job, error) {
	jobs := []models.Job{}
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Update writes every editable column, so zero values such as memberLimit 0
// persist. The applicant counter is owned by IncrementIfBelowLimit and is
// never written back from a possibly stale struct.
func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Omit("Owner", "current_applicants").Save(job).Error
}

// Delete removes a job together with its applications, reviews and saved
// references.
func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteJobs(tx, []uint{id})
	})
}

// DeleteByOwner removes every job an owner posted and everything hanging off
// those jobs.
func (r *jobRepository) DeleteByOwner(ctx context.Context, ownerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Job{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		return deleteJobs(tx, ids)
	})
}

func deleteJobs(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("job_id IN ?", ids).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id IN ?", ids).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM saved_jobs WHERE job_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Job{}).Error
}

// IncrementIfBelowLimit bumps the applicant counter in one conditional
// statement. It reports false when the job is full or gone.
func (r *jobRepository) IncrementIfBelowLimit(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND (member_limit = 0 OR current_applicants < member_limit)", id).
		UpdateColumn("current_applicants", gorm.Expr("current_applicants + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
