// Package scoring computes the qualification score and conversion probability
// of a consultation request. Both are deterministic functions of the request
// attributes and always fall in [0, 100].
package scoring

import (
	"unicode/utf8"

	"consult-booking-backend/internal/catalog"
)

// Point ceilings for each driver of the qualification score.
const (
	MaxBudgetPoints      = 40
	MaxTimelinePoints    = 30
	MaxProjectTypePoints = 30
	MaxScore             = 100
)

// Conversion bonuses layered on top of the qualification score.
const (
	CompanyBonus           = 5
	ProjectNameBonus       = 5
	DescriptionBonus       = 10
	DescriptionBonusMinLen = 50
)

var budgetPoints = map[catalog.Budget]int{
	catalog.BudgetUnder2k:   10,
	catalog.Budget2kTo5k:    20,
	catalog.Budget5kTo10k:   30,
	catalog.Budget10kTo20k:  35,
	catalog.Budget20kTo50k:  40,
	catalog.BudgetOver50k:   40,
	catalog.BudgetToDiscuss: 25,
}

var timelinePoints = map[catalog.Timeline]int{
	catalog.TimelineUrgent:     30,
	catalog.Timeline1To3Months: 25,
	catalog.Timeline3To6Months: 20,
	catalog.Timeline6Months:    15,
	catalog.TimelineNoRush:     10,
}

var projectTypePoints = map[catalog.ProjectType]int{
	catalog.ProjectEcommerce:     30,
	catalog.ProjectAIIntegration: 30,
	catalog.ProjectWebApp:        28,
	catalog.ProjectChatbot:       25,
	catalog.ProjectAutomation:    25,
	catalog.ProjectRedesign:      22,
	catalog.ProjectShowcaseSite:  20,
	catalog.ProjectSEO:           18,
	catalog.ProjectMaintenance:   15,
	catalog.ProjectOther:         10,
}

var modalityBonus = map[catalog.Modality]int{
	catalog.ModalityInPerson: 15,
	catalog.ModalityVideo:    10,
	catalog.ModalityPhone:    5,
}

// Input carries the lead attributes the scorer reads.
type Input struct {
	Budget             catalog.Budget
	Timeline           catalog.Timeline
	ProjectType        catalog.ProjectType
	Modality           catalog.Modality
	Company            string
	ProjectName        string
	ProjectDescription string
}

// Result is the outcome of scoring a lead.
type Result struct {
	QualificationScore    int            `json:"qualificationScore"`
	ConversionProbability int            `json:"conversionProbability"`
	Breakdown             map[string]int `json:"breakdown"`
}

// BudgetPoints returns the budget contribution; unknown brackets score 0.
func BudgetPoints(b catalog.Budget) int { return budgetPoints[b] }

// TimelinePoints returns the timeline contribution; unknown brackets score 0.
func TimelinePoints(t catalog.Timeline) int { return timelinePoints[t] }

// ProjectTypePoints returns the project-type contribution; unknown types score 0.
func ProjectTypePoints(p catalog.ProjectType) int { return projectTypePoints[p] }

// QualificationScore sums the three driver contributions, capped at MaxScore.
func QualificationScore(b catalog.Budget, t catalog.Timeline, p catalog.ProjectType) int {
	return clamp(BudgetPoints(b) + TimelinePoints(t) + ProjectTypePoints(p))
}

// ConversionProbability adds completeness and modality bonuses to a
// qualification score, capped at MaxScore.
func ConversionProbability(qualification int, in Input) int {
	p := qualification
	if in.Company != "" {
		p += CompanyBonus
	}
	if in.ProjectName != "" {
		p += ProjectNameBonus
	}
	if utf8.RuneCountInString(in.ProjectDescription) > DescriptionBonusMinLen {
		p += DescriptionBonus
	}
	if bonus, ok := modalityBonus[in.Modality]; ok {
		p += bonus
	} else {
		p += modalityBonus[catalog.ModalityPhone]
	}
	return clamp(p)
}

// Score computes both figures and the per-driver breakdown.
func Score(in Input) Result {
	q := QualificationScore(in.Budget, in.Timeline, in.ProjectType)
	return Result{
		QualificationScore:    q,
		ConversionProbability: ConversionProbability(q, in),
		Breakdown: map[string]int{
			"budget":      BudgetPoints(in.Budget),
			"timeline":    TimelinePoints(in.Timeline),
			"projectType": ProjectTypePoints(in.ProjectType),
		},
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
