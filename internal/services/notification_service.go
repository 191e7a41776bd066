package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/notify"
	log "github.com/sirupsen/logrus"
)

// Publisher pushes an event to live socket subscribers.
type Publisher interface {
	Publish(channel string, payload any) bool
}

// Exporter hands notifications to an external broker.
type Exporter interface {
	Publish(n *models.Notification) error
}

var applicantPhrases = map[string]string{
	models.ApplicationPending:   "is under review",
	models.ApplicationReviewed:  "has been reviewed",
	models.ApplicationInterview: "has been shortlisted for interview",
	models.ApplicationAccepted:  "has been accepted",
	models.ApplicationRejected:  "has been rejected",
}

var employerPhrases = map[string]string{
	models.ApplicationPending:   "marked as pending",
	models.ApplicationReviewed:  "marked as reviewed",
	models.ApplicationInterview: "shortlisted for interview",
	models.ApplicationAccepted:  "accepted",
	models.ApplicationRejected:  "rejected",
}

func phrase(m map[string]string, status, fallback string) string {
	if p, ok := m[status]; ok {
		return p
	}
	return fallback
}

type NotificationService struct {
	Store    notify.Store
	Hub      Publisher
	exporter Exporter
	now      func() time.Time
}

func NewNotificationService(store notify.Store, hub Publisher) *NotificationService {
	return &NotificationService{Store: store, Hub: hub, now: time.Now}
}

// WithExporter also forwards every stored notification to e.
func (s *NotificationService) WithExporter(e Exporter) *NotificationService {
	s.exporter = e
	return s
}

// emit stores the notifications, then pushes each one live. Only the store
// write can fail the call. It reports how many reached a live subscriber.
func (s *NotificationService) emit(ctx context.Context, ns ...*models.Notification) (int, error) {
	now := s.now()
	for _, n := range ns {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		n.Timestamp = now
	}
	if err := s.Store.Append(ctx, ns...); err != nil {
		return 0, fmt.Errorf("notifications: store: %w", err)
	}

	delivered := 0
	for _, n := range ns {
		if s.Hub != nil && s.Hub.Publish(n.Channel(), n) {
			delivered++
		}
		if s.exporter != nil {
			if err := s.exporter.Publish(n); err != nil {
				log.WithError(err).WithField("notification", n.ID).Warn("notification export failed")
			}
		}
	}
	log.WithFields(log.Fields{"count": len(ns), "delivered": delivered}).Debug("notifications emitted")
	return delivered, nil
}

func (s *NotificationService) List(ctx context.Context, u *models.User) ([]models.Notification, error) {
	ns, err := s.Store.ListFor(ctx, u.Viewer())
	if ns == nil {
		ns = []models.Notification{}
	}
	return ns, err
}

// MarkRead succeeds even when id matches nothing the user can see.
func (s *NotificationService) MarkRead(ctx context.Context, u *models.User, id string) error {
	return s.Store.MarkRead(ctx, id, u.Viewer())
}

func (s *NotificationService) MarkAllRead(ctx context.Context, u *models.User) error {
	return s.Store.MarkAllRead(ctx, u.Viewer())
}

func (s *NotificationService) Send(ctx context.Context, req *dtos.SendNotificationRequest) (*models.Notification, error) {
	n := &models.Notification{
		UserID:        req.UserID,
		RecipientRole: req.RecipientRole,
		Type:          req.Type,
		Title:         req.Title,
		Message:       req.Message,
		JobID:         req.JobID,
		ApplicationID: req.ApplicationID,
	}
	if _, err := s.emit(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// JobPosted announces a new posting to job seekers and admins and confirms it
// to the employer.
func (s *NotificationService) JobPosted(ctx context.Context, job *models.Job, ownerName, title string) ([]*models.Notification, error) {
	if title == "" {
		title = job.Title
	}
	jobID := models.RefOf(job.ID)
	ns := []*models.Notification{
		{
			RecipientRole: models.RoleJobseeker,
			Type:          models.NotificationNewJob,
			Title:         "New Job Posted",
			Message:       fmt.Sprintf(`A new job "%s" has been posted by %s`, title, ownerName),
			JobID:         jobID,
			JobTitle:      title,
			CompanyName:   ownerName,
		},
		{
			RecipientRole: models.RoleAdmin,
			Type:          models.NotificationNewJobAdmin,
			Title:         "New Job Posted by Employer",
			Message:       fmt.Sprintf(`Employer has posted a new job: "%s"`, title),
			JobID:         jobID,
		},
		{
			UserID:  models.RefOf(job.OwnerID),
			Type:    models.NotificationJobPosted,
			Title:   "Job Posted Successfully",
			Message: fmt.Sprintf(`Your job "%s" has been posted successfully`, title),
			JobID:   jobID,
		},
	}
	if _, err := s.emit(ctx, ns...); err != nil {
		return nil, err
	}
	return ns, nil
}

// ApplicationSubmitted tells the employer and the admins about a new applicant.
func (s *NotificationService) ApplicationSubmitted(ctx context.Context, req *dtos.NewApplicationRequest) ([]*models.Notification, error) {
	msg := fmt.Sprintf(`%s has applied for "%s"`, req.ApplicantName, req.JobTitle)
	ns := []*models.Notification{
		{
			UserID:        req.OwnerID,
			Type:          models.NotificationNewApplication,
			Title:         "New Job Application",
			Message:       msg,
			JobID:         req.JobID,
			ApplicationID: req.ApplicationID,
		},
		{
			RecipientRole: models.RoleAdmin,
			Type:          models.NotificationNewApplicationAdmin,
			Title:         "New Job Application Submitted",
			Message:       msg,
			JobID:         req.JobID,
			ApplicationID: req.ApplicationID,
		},
	}
	if _, err := s.emit(ctx, ns...); err != nil {
		return nil, err
	}
	return ns, nil
}

// StatusChanged tells the applicant about their new status and confirms the
// change to the employer.
func (s *NotificationService) StatusChanged(ctx context.Context, app *models.Application, job *models.Job, ownerName string) ([]*models.Notification, error) {
	appID := models.RefOf(app.ID)
	ns := []*models.Notification{
		{
			UserID:        models.RefOf(app.UserID),
			Type:          models.NotificationApplicationStatus,
			Title:         "Application Status Updated",
			Message:       fmt.Sprintf(`Your application for "%s" at %s %s`, job.Title, ownerName, phrase(applicantPhrases, app.Status, "status has been updated")),
			JobID:         models.RefOf(job.ID),
			ApplicationID: appID,
		},
		{
			UserID:        models.RefOf(job.OwnerID),
			Type:          models.NotificationEmployerStatus,
			Title:         "Application Status Updated",
			Message:       fmt.Sprintf(`You have %s an application for "%s"`, phrase(employerPhrases, app.Status, "updated the status of"), job.Title),
			ApplicationID: appID,
		},
	}
	if _, err := s.emit(ctx, ns...); err != nil {
		return nil, err
	}
	return ns, nil
}
