package notify

import (
	"context"
	"fmt"

	"github.com/justsurfingit/joblocal/internal/models"
	"gorm.io/gorm"
)

// GormStore persists notifications in the notifications table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Append(ctx context.Context, ns ...*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(ns).Error; err != nil {
		return fmt.Errorf("notify: append: %w", err)
	}
	return nil
}

func (s *GormStore) visible(tx *gorm.DB, v models.Viewer) *gorm.DB {
	q := tx.Where("user_id <> '' AND user_id = ?", string(v.ID)).
		Or("recipient_role <> '' AND recipient_role = ?", v.Role)
	if v.Role == models.RoleAdmin {
		q = q.Or("type = ?", models.NotificationAdminMessage)
	}
	return q
}

func (s *GormStore) ListFor(ctx context.Context, v models.Viewer) ([]models.Notification, error) {
	out := make([]models.Notification, 0)
	tx := s.db.WithContext(ctx)
	err := tx.Where(s.visible(tx.Session(&gorm.Session{NewDB: true}), v)).
		Order("sent_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("notify: list: %w", err)
	}
	return out, nil
}

func (s *GormStore) MarkRead(ctx context.Context, id string, v models.Viewer) error {
	tx := s.db.WithContext(ctx)
	cond := tx.Session(&gorm.Session{NewDB: true}).
		Where("user_id = ''").
		Or(s.visible(tx.Session(&gorm.Session{NewDB: true}), v))
	err := tx.Model(&models.Notification{}).
		Where("id = ?", id).
		Where(cond).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("notify: mark read: %w", err)
	}
	return nil
}

func (s *GormStore) MarkAllRead(ctx context.Context, v models.Viewer) error {
	tx := s.db.WithContext(ctx)
	err := tx.Model(&models.Notification{}).
		Where(s.visible(tx.Session(&gorm.Session{NewDB: true}), v)).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("notify: mark all read: %w", err)
	}
	return nil
}
