package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrSlotUnavailable is returned when a conditional claim matched no open slot.
	ErrSlotUnavailable = errors.New("slot is not available")
	// ErrSlotBooked is returned when blocking or deleting a booked slot.
	ErrSlotBooked = errors.New("slot is booked")
	// ErrDuplicateSlot is returned when a (date, time) pair already exists.
	ErrDuplicateSlot = errors.New("slot already exists")
)

// Store defines the interface for all database operations.
type Store interface {
	// WithTx runs fn against a Store bound to a single transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	CreateSlot(ctx context.Context, slot *model.Slot) error
	InsertMissingSlots(ctx context.Context, slots []model.Slot) (int, error)
	CountSlots(ctx context.Context, from, to string) (int64, error)
	ListOpenSlots(ctx context.Context, from, to string) ([]model.Slot, error)
	ListSlots(ctx context.Context, f SlotFilter) ([]model.Slot, int64, error)
	SlotStats(ctx context.Context, from, to string) (SlotStats, error)
	GetSlot(ctx context.Context, id int64) (*model.Slot, error)
	ClaimSlot(ctx context.Context, id int64, leadID string) error
	ClaimSlotAt(ctx context.Context, date string, t catalog.TimeOfDay, leadID string) (*model.Slot, error)
	ReleaseSlot(ctx context.Context, id int64) error
	ReleaseLeadSlot(ctx context.Context, date string, t catalog.TimeOfDay, leadID string) (bool, error)
	SetSlotAvailability(ctx context.Context, id int64, available bool, reason *string) error
	DeleteSlot(ctx context.Context, id int64) error

	CreateLead(ctx context.Context, lead *model.Lead) error
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	GetLeadForUpdate(ctx context.Context, id string) (*model.Lead, error)
	SaveLead(ctx context.Context, lead *model.Lead) error
	DeleteLead(ctx context.Context, id string) error
	ListLeads(ctx context.Context, f LeadFilter) ([]model.Lead, int64, error)
	LeadStats(ctx context.Context, f LeadFilter) (LeadStats, error)
	RecentLeads(ctx context.Context, n int) ([]model.Lead, error)

	CreateContact(ctx context.Context, contact *model.Contact) error
	GetContact(ctx context.Context, id string) (*model.Contact, error)
	ListContacts(ctx context.Context, f ContactFilter) ([]model.Contact, int64, error)
	UpdateContactStatus(ctx context.Context, id string, status catalog.ContactStatus) error

	RecordEvent(ctx context.Context, ev *model.AnalyticsEvent) error
	CountEventsByType(ctx context.Context) (map[catalog.EventType]int64, error)

	UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetPushSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	ListPushSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
