package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
)

// UpsertPushSubscription creates the subscription or refreshes its keys.
func (s *gormStore) UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("upsert push subscription: %w", err)
	}
	return nil
}

func (s *gormStore) GetPushSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *gormStore) ListPushSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	return subs, nil
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

func (s *gormStore) RecordEvent(ctx context.Context, ev *model.AnalyticsEvent) error {
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("record %s event: %w", ev.Type, err)
	}
	return nil
}

func (s *gormStore) CountEventsByType(ctx context.Context) (map[catalog.EventType]int64, error) {
	var rows []bucketCount
	err := s.db.WithContext(ctx).Model(&model.AnalyticsEvent{}).
		Select("type AS bucket, COUNT(*) AS n").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	counts := make(map[catalog.EventType]int64, len(catalog.EventTypes))
	for _, t := range catalog.EventTypes {
		counts[t] = 0
	}
	for _, r := range rows {
		counts[catalog.EventType(r.Bucket)] = r.N
	}
	return counts, nil
}
