package notify

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   NewGormStore(testutil.NewDB(t)),
	}
}

func seed(t *testing.T, s Store) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	err := s.Append(context.Background(),
		&models.Notification{ID: "direct", UserID: "7", Type: models.NotificationApplicationStatus, Timestamp: base},
		&models.Notification{ID: "owners", RecipientRole: models.RoleOwner, Type: models.NotificationNewJob, Timestamp: base.Add(time.Second)},
		&models.Notification{ID: "adminmsg", Type: models.NotificationAdminMessage, Timestamp: base.Add(2 * time.Second)},
		&models.Notification{ID: "other", UserID: "8", Type: models.NotificationApplicationStatus, Timestamp: base.Add(3 * time.Second)},
	)
	require.NoError(t, err)
}

func ids(ns []models.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}

func TestStoreFanOut(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)
			ctx := context.Background()

			got, err := s.ListFor(ctx, models.Viewer{ID: "7", Role: models.RoleOwner})
			require.NoError(t, err)
			assert.Equal(t, []string{"direct", "owners"}, ids(got))

			got, err = s.ListFor(ctx, models.Viewer{ID: "1", Role: models.RoleAdmin})
			require.NoError(t, err)
			assert.Equal(t, []string{"adminmsg"}, ids(got))

			got, err = s.ListFor(ctx, models.Viewer{ID: "99", Role: models.RoleJobseeker})
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestStoreMarkRead(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)
			ctx := context.Background()
			v := models.Viewer{ID: "7", Role: models.RoleOwner}

			require.NoError(t, s.MarkRead(ctx, "direct", v))
			// Unknown ids and records addressed to someone else are silently ignored.
			require.NoError(t, s.MarkRead(ctx, "does-not-exist", v))
			require.NoError(t, s.MarkRead(ctx, "other", v))

			got, err := s.ListFor(ctx, v)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.True(t, got[0].Read)
			assert.False(t, got[1].Read)

			other, err := s.ListFor(ctx, models.Viewer{ID: "8", Role: models.RoleJobseeker})
			require.NoError(t, err)
			require.Len(t, other, 1)
			assert.False(t, other[0].Read)
		})
	}
}

func TestStoreMarkAllRead(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)
			ctx := context.Background()
			v := models.Viewer{ID: "7", Role: models.RoleOwner}

			require.NoError(t, s.MarkAllRead(ctx, v))

			got, err := s.ListFor(ctx, v)
			require.NoError(t, err)
			for _, n := range got {
				assert.True(t, n.Read, n.ID)
			}
			admin, err := s.ListFor(ctx, models.Viewer{ID: "1", Role: models.RoleAdmin})
			require.NoError(t, err)
			assert.False(t, admin[0].Read)
		})
	}
}
