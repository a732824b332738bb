package store

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"consult-booking-backend/internal/model"
)

func (s *gormStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (s *gormStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	var lead model.Lead
	if err := s.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

// GetLeadForUpdate reads lead id and locks its row until the surrounding
// transaction ends. Use it inside WithTx before a read-modify-write.
func (s *gormStore) GetLeadForUpdate(ctx context.Context, id string) (*model.Lead, error) {
	var lead model.Lead
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

// SaveLead writes every column of lead.
func (s *gormStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	if err := s.db.WithContext(ctx).Save(lead).Error; err != nil {
		return fmt.Errorf("save lead %s: %w", lead.ID, err)
	}
	return nil
}

func (s *gormStore) DeleteLead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Lead{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete lead %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListLeads(ctx context.Context, f LeadFilter) ([]model.Lead, int64, error) {
	q := applyLeadFilter(s.db.WithContext(ctx).Model(&model.Lead{}), f)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	column, ok := leadSortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: f.SortDesc}).
		Order("id")
	if f.Limit > 0 {
		q = q.Offset(offset(f.Page, f.Limit)).Limit(f.Limit)
	}

	var leads []model.Lead
	if err := q.Find(&leads).Error; err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	return leads, total, nil
}

type bucketCount struct {
	Bucket string
	N      int64
}

func (s *gormStore) LeadStats(ctx context.Context, f LeadFilter) (LeadStats, error) {
	base := func() *gorm.DB {
		return applyLeadFilter(s.db.WithContext(ctx).Model(&model.Lead{}), f)
	}

	stats := LeadStats{
		StatusBreakdown:   make(map[string]int64),
		PriorityBreakdown: make(map[string]int64),
	}

	var avgs struct {
		Total   int64
		AvgQual float64
		AvgConv float64
	}
	err := base().
		Select("COUNT(*) AS total, " +
			"COALESCE(AVG(qualification_score), 0) AS avg_qual, " +
			"COALESCE(AVG(conversion_probability), 0) AS avg_conv").
		Scan(&avgs).Error
	if err != nil {
		return LeadStats{}, fmt.Errorf("lead averages: %w", err)
	}
	stats.Total = avgs.Total
	stats.AvgQualificationScore = round1(avgs.AvgQual)
	stats.AvgConversionProbability = round1(avgs.AvgConv)

	var byStatus []bucketCount
	if err := base().Select("status AS bucket, COUNT(*) AS n").Group("status").Scan(&byStatus).Error; err != nil {
		return LeadStats{}, fmt.Errorf("lead status breakdown: %w", err)
	}
	for _, b := range byStatus {
		stats.StatusBreakdown[b.Bucket] = b.N
	}
	stats.Pending = stats.StatusBreakdown["pending"]
	stats.Completed = stats.StatusBreakdown["completed"]

	var byPriority []bucketCount
	if err := base().Select("priority AS bucket, COUNT(*) AS n").Group("priority").Scan(&byPriority).Error; err != nil {
		return LeadStats{}, fmt.Errorf("lead priority breakdown: %w", err)
	}
	for _, b := range byPriority {
		stats.PriorityBreakdown[b.Bucket] = b.N
	}
	return stats, nil
}

// RecentLeads returns the n most recently created leads.
func (s *gormStore) RecentLeads(ctx context.Context, n int) ([]model.Lead, error) {
	var leads []model.Lead
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id").Limit(n).Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("recent leads: %w", err)
	}
	return leads, nil
}

func applyLeadFilter(q *gorm.DB, f LeadFilter) *gorm.DB {
	equals := []struct {
		column string
		value  string
	}{
		{"status", f.Status},
		{"priority", f.Priority},
		{"project_type", f.ProjectType},
		{"budget", f.Budget},
		{"source", f.Source},
	}
	for _, e := range equals {
		if e.value != "" && e.value != "all" {
			q = q.Where(e.column+" = ?", e.value)
		}
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where(
			`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR `+
				`LOWER(email) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\' OR `+
				`LOWER(project_name) LIKE ? ESCAPE '\' OR LOWER(project_description) LIKE ? ESCAPE '\'`,
			like, like, like, like, like, like,
		)
	}

	if !f.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", f.CreatedFrom)
	}
	if !f.CreatedTo.IsZero() {
		q = q.Where("created_at < ?", f.CreatedTo)
	}
	return q
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
