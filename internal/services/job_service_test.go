package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobAppliesDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, owner, &dtos.JobCreationRequest{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Salary:      900000,
		Location:    models.Location{City: "Pune", State: "MH", Country: "India"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Zero(t, job.CurrentApplicants)

	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, "Build APIs", got.Description)
	assert.Equal(t, 900000.0, got.Salary)
	assert.Equal(t, models.Location{City: "Pune", State: "MH", Country: "India"}, got.Location)
	assert.Equal(t, "onsite", got.WorkType)
	assert.Equal(t, "fulltime", got.JobType)
	assert.Equal(t, "annum", got.SalaryType)
	assert.Equal(t, []string{}, got.RequiredSkills)
	assert.Equal(t, owner.ID, got.OwnerID)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "acme", got.Owner.Name)
}

func TestCreateJobRequiresLocation(t *testing.T) {
	db := testutil.NewDB(t)
	owner := createUser(t, db, models.RoleOwner, "acme")

	_, err := NewJobService(db).CreateJob(context.Background(), owner, &dtos.JobCreationRequest{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Location:    models.Location{City: "Pune", Country: "India"},
	})
	assert.ErrorIs(t, err, ErrLocationRequired)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateJobKeepsEmptyFields(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	job := createJob(t, db, owner, "Backend Engineer", 5)
	ctx := context.Background()

	zero := 0
	updated, err := svc.UpdateJob(ctx, owner, job.ID, &dtos.JobUpdateRequest{
		Title:       "",
		Location:    &models.Location{City: "Mumbai"},
		WorkType:    "remote",
		MemberLimit: &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", updated.Title)
	assert.Equal(t, models.Location{City: "Mumbai", State: "MH", Country: "India"}, updated.Location)
	assert.Equal(t, "remote", updated.WorkType)
	assert.Zero(t, updated.MemberLimit)

	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Zero(t, got.MemberLimit)
	assert.Equal(t, "Mumbai", got.Location.City)
}

func TestOnlyOwnerOrAdminManagesJob(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	rival := createUser(t, db, models.RoleOwner, "rival")
	admin := createUser(t, db, models.RoleAdmin, "root")
	job := createJob(t, db, owner, "Backend Engineer", 0)
	ctx := context.Background()

	_, err := svc.UpdateJob(ctx, rival, job.ID, &dtos.JobUpdateRequest{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.ErrorIs(t, svc.DeleteJob(ctx, rival, job.ID), ErrNotAuthorized)
	_, err = svc.ListApplications(ctx, rival, job.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.UpdateJob(ctx, admin, job.ID, &dtos.JobUpdateRequest{Status: models.JobStatusClosed})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteJob(ctx, admin, job.ID))

	_, err = svc.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestListActiveHidesOtherStatuses(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	open := createJob(t, db, owner, "Open", 0)
	closed := createJob(t, db, owner, "Closed", 0)
	require.NoError(t, db.Model(closed).Update("status", models.JobStatusClosed).Error)

	jobs, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, open.ID, jobs[0].ID)

	// closed postings are still reachable by id
	_, err = svc.GetJob(context.Background(), closed.ID)
	assert.NoError(t, err)
}

func TestDeleteJobCascades(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	seeker := createUser(t, db, models.RoleJobseeker, "sam")
	job := createJob(t, db, owner, "Backend Engineer", 0)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Application{UserID: seeker.ID, JobID: job.ID}).Error)
	_, err := svc.AddReview(ctx, seeker, job.ID, &dtos.ReviewRequest{Rating: 4})
	require.NoError(t, err)
	saved, err := svc.ToggleSave(ctx, seeker, job.ID)
	require.NoError(t, err)
	require.True(t, saved)

	require.NoError(t, svc.DeleteJob(ctx, owner, job.ID))

	var apps, reviews, links int64
	db.Model(&models.Application{}).Count(&apps)
	db.Model(&models.Review{}).Count(&reviews)
	db.Table("saved_jobs").Count(&links)
	assert.Zero(t, apps)
	assert.Zero(t, reviews)
	assert.Zero(t, links)
}

func TestToggleSave(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	seeker := createUser(t, db, models.RoleJobseeker, "sam")
	job := createJob(t, db, owner, "Backend Engineer", 0)
	ctx := context.Background()

	saved, err := svc.ToggleSave(ctx, seeker, job.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSave(ctx, seeker, job.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = svc.ToggleSave(ctx, seeker, 999)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestReviewOncePerJob(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	seeker := createUser(t, db, models.RoleJobseeker, "sam")
	job := createJob(t, db, owner, "Backend Engineer", 0)
	ctx := context.Background()

	_, err := svc.AddReview(ctx, seeker, job.ID, &dtos.ReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, seeker, job.ID, &dtos.ReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	reviews, err := svc.ListReviews(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "sam", reviews[0].User.Name)
}
