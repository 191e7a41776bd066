package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/notify"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, role, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createJob(t *testing.T, db *gorm.DB, owner *models.User, title string, limit int) *models.Job {
	t.Helper()
	job := &models.Job{
		Title:          title,
		Description:    "desc",
		Location:       models.Location{City: "Pune", State: "MH", Country: "India"},
		OwnerID:        owner.ID,
		Status:         models.JobStatusActive,
		MemberLimit:    limit,
		RequiredSkills: []string{},
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// recordingHub remembers every channel published to.
type recordingHub struct {
	mu       sync.Mutex
	channels []string
	live     bool
}

func (h *recordingHub) Publish(channel string, _ any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.channels = append(h.channels, channel)
	return h.live
}

func (h *recordingHub) published() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.channels...)
}

type failingStore struct{ notify.Store }

func (failingStore) Append(context.Context, ...*models.Notification) error {
	return fmt.Errorf("store down")
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
