package store

import "time"

// SlotFilter narrows the admin slot listing. Empty bounds are open.
type SlotFilter struct {
	From  string
	To    string
	Page  int
	Limit int
}

// SlotStats counts slots by state over a date range.
type SlotStats struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Booked      int64 `json:"booked"`
	Unavailable int64 `json:"unavailable"`
}

// Lead sort columns accepted by ListLeads.
var leadSortColumns = map[string]string{
	"createdAt":             "created_at",
	"qualificationScore":    "qualification_score",
	"conversionProbability": "conversion_probability",
	"consultationDate":      "consultation_date",
}

// ValidLeadSort reports whether sortBy names a sortable lead column.
func ValidLeadSort(sortBy string) bool {
	_, ok := leadSortColumns[sortBy]
	return ok
}

// LeadFilter narrows the admin lead listing. Zero values disable a filter.
type LeadFilter struct {
	Status      string
	Priority    string
	ProjectType string
	Budget      string
	Source      string
	Search      string
	CreatedFrom time.Time // inclusive
	CreatedTo   time.Time // exclusive
	SortBy      string
	SortDesc    bool
	Page        int
	Limit       int
}

// LeadStats summarizes the leads matching a filter.
type LeadStats struct {
	Total                    int64            `json:"total"`
	Pending                  int64            `json:"pending"`
	Completed                int64            `json:"completed"`
	AvgQualificationScore    float64          `json:"avgQualificationScore"`
	AvgConversionProbability float64          `json:"avgConversionProbability"`
	StatusBreakdown          map[string]int64 `json:"statusBreakdown"`
	PriorityBreakdown        map[string]int64 `json:"priorityBreakdown"`
}

// ContactFilter narrows the admin contact listing.
type ContactFilter struct {
	Status string
	Page   int
	Limit  int
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
