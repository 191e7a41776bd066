package notify

import (
	"context"

	"github.com/justsurfingit/joblocal/internal/models"
)

// Store keeps notification records for later pull by their recipients.
type Store interface {
	Append(ctx context.Context, n ...*models.Notification) error
	// ListFor returns every record visible to v, oldest first.
	ListFor(ctx context.Context, v models.Viewer) ([]models.Notification, error)
	// MarkRead flags one record as read. Unknown ids are not an error.
	MarkRead(ctx context.Context, id string, v models.Viewer) error
	MarkAllRead(ctx context.Context, v models.Viewer) error
}

// canMark is looser than VisibleTo: any record without a direct recipient
// may be marked by whoever holds its id.
func canMark(n *models.Notification, v models.Viewer) bool {
	return n.UserID == "" || n.VisibleTo(v)
}
