package leads

import (
	"context"
	"fmt"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
	"consult-booking-backend/internal/store"
	"consult-booking-backend/internal/validate"
)

// recentCount is how many leads the dashboard shows as most recent.
const recentCount = 5

// UpdateInput lists the admin-editable fields. Nil fields are left alone.
type UpdateInput struct {
	Status      *catalog.Status      `json:"status"`
	Priority    *catalog.Priority    `json:"priority"`
	AdminNotes  *string              `json:"adminNotes" binding:"omitempty,max=10000"`
	Budget      *catalog.Budget      `json:"budget"`
	Timeline    *catalog.Timeline    `json:"timeline"`
	ProjectType *catalog.ProjectType `json:"projectType"`
}

func (in UpdateInput) empty() bool {
	return in.Status == nil && in.Priority == nil && in.AdminNotes == nil &&
		in.Budget == nil && in.Timeline == nil && in.ProjectType == nil
}

// Get returns lead id.
func (s *Service) Get(ctx context.Context, id string) (*model.Lead, error) {
	lead, err := s.store.GetLead(ctx, id)
	if err != nil {
		return nil, booking.FromStore(err)
	}
	return lead, nil
}

// UpdateStatus moves lead id to status, applying the workflow side effects.
func (s *Service) UpdateStatus(ctx context.Context, id string, status catalog.Status) (*model.Lead, error) {
	return s.Update(ctx, id, UpdateInput{Status: &status})
}

// Update applies an admin edit in one transaction holding the lead's row
// lock, so a concurrent cancel cannot be overwritten. A status change follows
// the workflow: entering contacted or scheduled stamps the matching time,
// entering cancelled releases the lead's slot. Scores are recomputed only
// when budget, timeline or project type is part of the edit.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*model.Lead, error) {
	if in.empty() {
		return nil, apperr.Validation(apperr.FieldError{Field: "body", Message: "no updatable field provided"})
	}
	if err := checkUpdate(in); err != nil {
		return nil, err
	}

	var (
		updated  *model.Lead
		released bool
	)
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		lead, err := tx.GetLeadForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if in.Status != nil && *in.Status != lead.Status {
			if !CanTransition(lead.Status, *in.Status) {
				return apperr.New(apperr.KindInvalidTransition,
					fmt.Sprintf("cannot move a %s lead to %s", lead.Status, *in.Status))
			}
			now := s.now()
			switch *in.Status {
			case catalog.StatusContacted:
				lead.ContactedAt = &now
			case catalog.StatusScheduled:
				lead.ScheduledAt = &now
			case catalog.StatusCancelled:
				if released, err = s.releaseSlot(ctx, tx, lead); err != nil {
					return err
				}
			}
			lead.Status = *in.Status
		}

		if in.Priority != nil {
			lead.Priority = *in.Priority
		}
		if in.AdminNotes != nil {
			lead.AdminNotes = *in.AdminNotes
		}

		if in.Budget != nil || in.Timeline != nil || in.ProjectType != nil {
			if in.Budget != nil {
				lead.Budget = *in.Budget
			}
			if in.Timeline != nil {
				lead.Timeline = *in.Timeline
			}
			if in.ProjectType != nil {
				lead.ProjectType = *in.ProjectType
			}
			rescore(lead)
		}

		if err := tx.SaveLead(ctx, lead); err != nil {
			return err
		}
		updated = lead
		return nil
	})
	if err != nil {
		return nil, booking.FromStore(err)
	}

	if released {
		s.slots.NotifyChanged()
	}
	s.log.Info("lead updated", "lead_id", id, "status", updated.Status)
	return updated, nil
}

// Delete releases the lead's slot, whatever its status, then removes it.
// The lead row stays locked between the read and the delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	var released bool
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		lead, err := tx.GetLeadForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if released, err = s.releaseSlot(ctx, tx, lead); err != nil {
			return err
		}
		return tx.DeleteLead(ctx, id)
	})
	if err != nil {
		return booking.FromStore(err)
	}

	if released {
		s.slots.NotifyChanged()
	}
	s.log.Info("lead deleted", "lead_id", id)
	return nil
}

// releaseSlot frees the slot held by lead. A missing slot is logged only.
func (s *Service) releaseSlot(ctx context.Context, tx store.Store, lead *model.Lead) (bool, error) {
	found, err := tx.ReleaseLeadSlot(ctx, lead.ConsultationDate, lead.ConsultationTime, lead.ID)
	if err != nil {
		return false, err
	}
	if !found {
		s.log.Warn("no booked slot found for lead",
			"lead_id", lead.ID,
			"date", lead.ConsultationDate,
			"time", lead.ConsultationTime,
		)
	}
	return found, nil
}

func checkUpdate(in UpdateInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}

	var fields []apperr.FieldError
	if in.Status != nil && !in.Status.Valid() {
		fields = append(fields, apperr.FieldError{Field: "status", Message: "unrecognized value"})
	}
	if in.Priority != nil && !in.Priority.Valid() {
		fields = append(fields, apperr.FieldError{Field: "priority", Message: "unrecognized value"})
	}
	if in.Budget != nil && !in.Budget.Valid() {
		fields = append(fields, apperr.FieldError{Field: "budget", Message: "unrecognized value"})
	}
	if in.Timeline != nil && !in.Timeline.Valid() {
		fields = append(fields, apperr.FieldError{Field: "timeline", Message: "unrecognized value"})
	}
	if in.ProjectType != nil && !in.ProjectType.Valid() {
		fields = append(fields, apperr.FieldError{Field: "projectType", Message: "unrecognized value"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

// Page is one page of the admin lead listing.
type Page struct {
	Leads []model.Lead
	Total int64
	Stats store.LeadStats
}

// List returns the leads matching f with statistics over the whole match.
func (s *Service) List(ctx context.Context, f store.LeadFilter) (Page, error) {
	if f.SortBy != "" && !store.ValidLeadSort(f.SortBy) {
		return Page{}, apperr.Validation(apperr.FieldError{Field: "sortBy", Message: "unsupported sort column"})
	}

	leads, total, err := s.store.ListLeads(ctx, f)
	if err != nil {
		return Page{}, booking.FromStore(err)
	}
	stats, err := s.store.LeadStats(ctx, f)
	if err != nil {
		return Page{}, booking.FromStore(err)
	}
	return Page{Leads: leads, Total: total, Stats: stats}, nil
}

// Dashboard is the unfiltered summary shown on the admin home.
type Dashboard struct {
	store.LeadStats
	Recent []model.Lead `json:"recent"`
}

// Stats summarizes every lead and lists the most recent ones.
func (s *Service) Stats(ctx context.Context) (Dashboard, error) {
	stats, err := s.store.LeadStats(ctx, store.LeadFilter{})
	if err != nil {
		return Dashboard{}, booking.FromStore(err)
	}
	recent, err := s.store.RecentLeads(ctx, recentCount)
	if err != nil {
		return Dashboard{}, booking.FromStore(err)
	}
	return Dashboard{LeadStats: stats, Recent: recent}, nil
}
