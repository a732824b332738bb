package catalog

// Status is the position of a lead in the follow-up workflow.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusContacted Status = "contacted"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists the workflow in progression order, cancellation last.
var Statuses = []Status{
	StatusPending, StatusReviewed, StatusContacted, StatusScheduled, StatusCompleted, StatusCancelled,
}

func (s Status) Valid() bool { return contains(Statuses, s) }

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s *Status) UnmarshalJSON(data []byte) error {
	v, err := decode("status", data, Status.Valid)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Priority is the admin-facing urgency of a lead.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) Valid() bool { return contains(Priorities, p) }

func (p *Priority) UnmarshalJSON(data []byte) error {
	v, err := decode("priority", data, Priority.Valid)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ContactStatus tracks how far the admin got with a contact request.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

var ContactStatuses = []ContactStatus{ContactPending, ContactRead, ContactReplied, ContactArchived}

func (s ContactStatus) Valid() bool { return contains(ContactStatuses, s) }

func (s *ContactStatus) UnmarshalJSON(data []byte) error {
	v, err := decode("status", data, ContactStatus.Valid)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// EventType classifies a marketing-site analytics event.
type EventType string

const (
	EventPageView     EventType = "page_view"
	EventCTAClick     EventType = "cta_click"
	EventProjectClick EventType = "project_click"
)

var EventTypes = []EventType{EventPageView, EventCTAClick, EventProjectClick}

func (e EventType) Valid() bool { return contains(EventTypes, e) }

func (e *EventType) UnmarshalJSON(data []byte) error {
	v, err := decode("type", data, EventType.Valid)
	if err != nil {
		return err
	}
	*e = v
	return nil
}
