package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
)

func (s *gormStore) CreateContact(ctx context.Context, contact *model.Contact) error {
	if err := s.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (s *gormStore) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	var contact model.Contact
	if err := s.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &contact, nil
}

// ListContacts returns contacts newest first, with the total before paging.
func (s *gormStore) ListContacts(ctx context.Context, f ContactFilter) ([]model.Contact, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Contact{})
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	q = q.Order("created_at DESC").Order("id")
	if f.Limit > 0 {
		q = q.Offset(offset(f.Page, f.Limit)).Limit(f.Limit)
	}

	var contacts []model.Contact
	if err := q.Find(&contacts).Error; err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, total, nil
}

func (s *gormStore) UpdateContactStatus(ctx context.Context, id string, status catalog.ContactStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Contact{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update contact %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
