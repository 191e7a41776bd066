package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

const (
	NotificationAdminMessage        = "admin_message"
	NotificationNewJob              = "new_job"
	NotificationNewJobAdmin         = "new_job_admin"
	NotificationJobPosted           = "job_posted"
	NotificationNewApplication      = "new_application"
	NotificationNewApplicationAdmin = "new_application_admin"
	NotificationApplicationStatus   = "application_status"
	NotificationEmployerStatus      = "employer_status_update"
)

// RefID is an entity reference carried by notifications. Clients send it either
// as a JSON number or a string, it is always stored and emitted as a string.
type RefID string

func (r *RefID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = RefID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = RefID(n.String())
	return nil
}

func RefOf(id uint) RefID {
	return RefID(strconv.FormatUint(uint64(id), 10))
}

// Notification is a message addressed to one account, to every account with a
// role, or to everybody when neither is set.
type Notification struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	UserID        RefID     `gorm:"index;size:64" json:"userId,omitempty"`
	RecipientRole string    `gorm:"index;size:32" json:"recipientRole,omitempty"`
	Type          string    `gorm:"size:64" json:"type"`
	Title         string    `json:"title"`
	Message       string    `gorm:"type:text" json:"message"`
	JobID         RefID     `gorm:"size:64" json:"jobId,omitempty"`
	JobTitle      string    `json:"jobTitle,omitempty"`
	CompanyName   string    `json:"companyName,omitempty"`
	ApplicationID RefID     `gorm:"size:64" json:"applicationId,omitempty"`
	Timestamp     time.Time `gorm:"column:sent_at;index" json:"timestamp"`
	Read          bool      `gorm:"column:is_read" json:"read"`
}

// Viewer identifies who is reading notifications.
type Viewer struct {
	ID   RefID
	Role string
}

func (u *User) Viewer() Viewer {
	return Viewer{ID: RefOf(u.ID), Role: u.Role}
}

// VisibleTo applies the fan-out rule: direct address, role address, or an
// admin message read by an admin.
func (n *Notification) VisibleTo(v Viewer) bool {
	if n.UserID != "" && n.UserID == v.ID {
		return true
	}
	if n.RecipientRole != "" && n.RecipientRole == v.Role {
		return true
	}
	return n.Type == NotificationAdminMessage && v.Role == RoleAdmin
}

// Channel is the socket channel a new notification is pushed on.
func (n *Notification) Channel() string {
	switch {
	case n.UserID != "":
		return "notification_" + string(n.UserID)
	case n.RecipientRole != "":
		return "notification_" + n.RecipientRole
	default:
		return BroadcastChannel
	}
}

const BroadcastChannel = "new_notification"
