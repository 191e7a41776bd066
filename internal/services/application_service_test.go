package services

import (
	"context"
	"os"
	"testing"

	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/notify"
	"github.com/justsurfingit/joblocal/internal/repository"
	"github.com/justsurfingit/joblocal/internal/storage"
	"github.com/justsurfingit/joblocal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApplicationService(t *testing.T) (*ApplicationService, *notify.MemoryStore, *recordingHub) {
	t.Helper()
	db := testutil.NewDB(t)
	store := notify.NewMemoryStore()
	hub := &recordingHub{}
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return NewApplicationService(db, NewNotificationService(store, hub), local), store, hub
}

func TestApplyOncePerJob(t *testing.T) {
	svc, store, hub := newApplicationService(t)
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 0)
	ctx := context.Background()

	app, err := svc.Apply(ctx, seeker, job.ID, "hire me", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "sam", app.UserInfo.Name)
	assert.Equal(t, "sam@example.com", app.UserInfo.Email)

	_, err = svc.Apply(ctx, seeker, job.ID, "again", nil)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Equal(t, KindValidation, KindOf(err))

	var stored models.Job
	require.NoError(t, svc.DB.First(&stored, job.ID).Error)
	assert.Equal(t, 1, stored.CurrentApplicants)

	// owner and admins hear about it
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"notification_" + string(models.RefOf(owner.ID)), "notification_admin"}, hub.published())
}

func TestApplyRespectsMemberLimit(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 2)
	ctx := context.Background()

	for _, name := range []string{"ana", "ben"} {
		_, err := svc.Apply(ctx, createUser(t, svc.DB, models.RoleJobseeker, name), job.ID, "", nil)
		require.NoError(t, err)
	}
	_, err := svc.Apply(ctx, createUser(t, svc.DB, models.RoleJobseeker, "cat"), job.ID, "", nil)
	assert.ErrorIs(t, err, ErrLimitReached)

	var count int64
	svc.DB.Model(&models.Application{}).Where("job_id = ?", job.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestIncrementIfBelowLimit(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewJobRepository(db)
	owner := createUser(t, db, models.RoleOwner, "acme")
	capped := createJob(t, db, owner, "Capped", 1)
	open := createJob(t, db, owner, "Open", 0)
	ctx := context.Background()

	ok, err := repo.IncrementIfBelowLimit(ctx, capped.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IncrementIfBelowLimit(ctx, capped.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		ok, err = repo.IncrementIfBelowLimit(ctx, open.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err = repo.IncrementIfBelowLimit(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyStoresResume(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 0)

	app, err := svc.Apply(context.Background(), seeker, job.ID, "", &ResumeUpload{
		Name: "cv.txt",
		Data: []byte("Go developer with five years of experience"),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^uploads/\d+\.txt$`, app.ResumeFile)
	assert.Equal(t, "Go developer with five years of experience", app.ResumeText)
}

// fullJobs reports every job as full once the insert has happened.
type fullJobs struct{ repository.JobRepository }

func (f fullJobs) WithTx(*gorm.DB) repository.JobRepository { return f }

func (fullJobs) IncrementIfBelowLimit(context.Context, uint) (bool, error) { return false, nil }

func TestApplyRemovesResumeWhenRejected(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	dir := t.TempDir()
	local, err := storage.NewLocal(dir)
	require.NoError(t, err)
	svc.Storage = local
	svc.Jobs = fullJobs{svc.Jobs}

	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 1)

	_, err = svc.Apply(context.Background(), seeker, job.ID, "", &ResumeUpload{Name: "cv.txt", Data: []byte("Go developer")})
	assert.ErrorIs(t, err, ErrLimitReached)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Application{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStatusChangeNotifiesBothParties(t *testing.T) {
	svc, store, _ := newApplicationService(t)
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 0)
	app := &models.Application{UserID: seeker.ID, JobID: job.ID, Status: models.ApplicationPending}
	require.NoError(t, svc.DB.Create(app).Error)
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, owner, app.ID, models.ApplicationInterview)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationInterview, updated.Status)
	require.Equal(t, 2, store.Len())

	forSeeker, err := store.ListFor(ctx, seeker.Viewer())
	require.NoError(t, err)
	require.Len(t, forSeeker, 1)
	assert.Equal(t, models.NotificationApplicationStatus, forSeeker[0].Type)
	assert.Equal(t, `Your application for "Backend Engineer" at acme has been shortlisted for interview`, forSeeker[0].Message)

	forOwner, err := store.ListFor(ctx, owner.Viewer())
	require.NoError(t, err)
	require.Len(t, forOwner, 1)
	assert.Equal(t, models.NotificationEmployerStatus, forOwner[0].Type)
	assert.Equal(t, `You have shortlisted for interview an application for "Backend Engineer"`, forOwner[0].Message)
}

func TestStatusChangeSurvivesNotificationFailure(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	svc.Notifications = NewNotificationService(failingStore{}, &recordingHub{})
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 0)
	app := &models.Application{UserID: seeker.ID, JobID: job.ID}
	require.NoError(t, svc.DB.Create(app).Error)

	updated, err := svc.UpdateStatus(context.Background(), owner, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, updated.Status)
}

func TestStatusChangeAuthorization(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	admin := createUser(t, svc.DB, models.RoleAdmin, "root")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 0)
	app := &models.Application{UserID: seeker.ID, JobID: job.ID}
	require.NoError(t, svc.DB.Create(app).Error)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, seeker, app.ID, models.ApplicationAccepted)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, err = svc.UpdateStatus(ctx, admin, app.ID, models.ApplicationRejected)
	assert.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, 999, models.ApplicationRejected)
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestDeleteApplicationKeepsCounter(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	other := createUser(t, svc.DB, models.RoleJobseeker, "eve")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 0)
	ctx := context.Background()

	app, err := svc.Apply(ctx, seeker, job.ID, "", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, other, app.ID), ErrNotAuthorized)
	require.NoError(t, svc.Delete(ctx, seeker, app.ID))

	var stored models.Job
	require.NoError(t, svc.DB.First(&stored, job.ID).Error)
	assert.Equal(t, 1, stored.CurrentApplicants)
}

func TestApplicationVisibility(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	owner := createUser(t, svc.DB, models.RoleOwner, "acme")
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	other := createUser(t, svc.DB, models.RoleJobseeker, "eve")
	job := createJob(t, svc.DB, owner, "Backend Engineer", 0)
	ctx := context.Background()

	app, err := svc.Apply(ctx, seeker, job.ID, "", nil)
	require.NoError(t, err)

	for _, u := range []*models.User{seeker, owner} {
		got, err := svc.Get(ctx, u, app.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Job)
		assert.Equal(t, "Backend Engineer", got.Job.Title)
	}
	_, err = svc.Get(ctx, other, app.ID)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	apps, err := svc.ListForUser(ctx, seeker, seeker.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	_, err = svc.ListForUser(ctx, other, seeker.ID)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestGetUserLimitedView(t *testing.T) {
	svc, _, _ := newApplicationService(t)
	seeker := createUser(t, svc.DB, models.RoleJobseeker, "sam")
	other := createUser(t, svc.DB, models.RoleJobseeker, "eve")
	ctx := context.Background()

	full, err := svc.GetUser(ctx, seeker, seeker.ID)
	require.NoError(t, err)
	assert.IsType(t, &models.User{}, full)

	limited, err := svc.GetUser(ctx, other, seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, dtos.LimitedUser{ID: seeker.ID, Name: "sam", Email: "sam@example.com", Role: models.RoleJobseeker}, limited)
}
