package catalog

// Budget is the budget bracket picked in the booking wizard.
type Budget string

const (
	BudgetUnder2k   Budget = "moins-2k"
	Budget2kTo5k    Budget = "2k-5k"
	Budget5kTo10k   Budget = "5k-10k"
	Budget10kTo20k  Budget = "10k-20k"
	Budget20kTo50k  Budget = "20k-50k"
	BudgetOver50k   Budget = "plus-50k"
	BudgetToDiscuss Budget = "a-discuter"
)

// Budgets lists every bracket, lowest first, with the undecided bracket last.
var Budgets = []Budget{
	BudgetUnder2k, Budget2kTo5k, Budget5kTo10k, Budget10kTo20k,
	Budget20kTo50k, BudgetOver50k, BudgetToDiscuss,
}

var budgetLabels = map[Budget]string{
	BudgetUnder2k:   "Moins de 2 000€",
	Budget2kTo5k:    "2 000€ - 5 000€",
	Budget5kTo10k:   "5 000€ - 10 000€",
	Budget10kTo20k:  "10 000€ - 20 000€",
	Budget20kTo50k:  "20 000€ - 50 000€",
	BudgetOver50k:   "Plus de 50 000€",
	BudgetToDiscuss: "À discuter",
}

func (b Budget) Valid() bool { return contains(Budgets, b) }

func (b Budget) Label() string {
	if l, ok := budgetLabels[b]; ok {
		return l
	}
	return string(b)
}

func (b *Budget) UnmarshalJSON(data []byte) error {
	v, err := decode("budget", data, Budget.Valid)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Timeline is how soon the prospect wants the project delivered.
type Timeline string

const (
	TimelineUrgent     Timeline = "urgent-1mois"
	Timeline1To3Months Timeline = "1-3mois"
	Timeline3To6Months Timeline = "3-6mois"
	Timeline6Months    Timeline = "6mois-plus"
	TimelineNoRush     Timeline = "pas-de-rush"
)

// Timelines lists every bracket, most urgent first.
var Timelines = []Timeline{
	TimelineUrgent, Timeline1To3Months, Timeline3To6Months, Timeline6Months, TimelineNoRush,
}

var timelineLabels = map[Timeline]string{
	TimelineUrgent:     "Urgent (< 1 mois)",
	Timeline1To3Months: "1 à 3 mois",
	Timeline3To6Months: "3 à 6 mois",
	Timeline6Months:    "6 mois et plus",
	TimelineNoRush:     "Pas de contrainte",
}

func (t Timeline) Valid() bool { return contains(Timelines, t) }

func (t Timeline) Label() string {
	if l, ok := timelineLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t *Timeline) UnmarshalJSON(data []byte) error {
	v, err := decode("timeline", data, Timeline.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ProjectType is an entry of the services catalog.
type ProjectType string

const (
	ProjectShowcaseSite  ProjectType = "site-web-vitrine"
	ProjectEcommerce     ProjectType = "site-web-ecommerce"
	ProjectWebApp        ProjectType = "application-web"
	ProjectAIIntegration ProjectType = "integration-ia"
	ProjectChatbot       ProjectType = "chatbot-ia"
	ProjectAutomation    ProjectType = "automatisation"
	ProjectSEO           ProjectType = "optimisation-seo"
	ProjectRedesign      ProjectType = "refonte-site"
	ProjectMaintenance   ProjectType = "maintenance"
	ProjectOther         ProjectType = "autre"
)

var ProjectTypes = []ProjectType{
	ProjectShowcaseSite, ProjectEcommerce, ProjectWebApp, ProjectAIIntegration, ProjectChatbot,
	ProjectAutomation, ProjectSEO, ProjectRedesign, ProjectMaintenance, ProjectOther,
}

var projectTypeLabels = map[ProjectType]string{
	ProjectShowcaseSite:  "Site Web Vitrine",
	ProjectEcommerce:     "Site E-commerce",
	ProjectWebApp:        "Application Web",
	ProjectAIIntegration: "Intégration IA",
	ProjectChatbot:       "Chatbot IA",
	ProjectAutomation:    "Automatisation",
	ProjectSEO:           "Optimisation SEO",
	ProjectRedesign:      "Refonte de Site",
	ProjectMaintenance:   "Maintenance",
	ProjectOther:         "Autre Projet",
}

func (p ProjectType) Valid() bool { return contains(ProjectTypes, p) }

func (p ProjectType) Label() string {
	if l, ok := projectTypeLabels[p]; ok {
		return l
	}
	return string(p)
}

func (p *ProjectType) UnmarshalJSON(data []byte) error {
	v, err := decode("projectType", data, ProjectType.Valid)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Modality is the consultation delivery channel.
type Modality string

const (
	ModalityPhone    Modality = "telephone"
	ModalityVideo    Modality = "visio-zoom"
	ModalityInPerson Modality = "entretien-physique"
)

var Modalities = []Modality{ModalityPhone, ModalityVideo, ModalityInPerson}

var modalityLabels = map[Modality]string{
	ModalityPhone:    "Appel Téléphonique",
	ModalityVideo:    "Visioconférence Zoom",
	ModalityInPerson: "Rendez-vous Physique",
}

func (m Modality) Valid() bool { return contains(Modalities, m) }

func (m Modality) Label() string {
	if l, ok := modalityLabels[m]; ok {
		return l
	}
	return string(m)
}

func (m *Modality) UnmarshalJSON(data []byte) error {
	v, err := decode("consultationType", data, Modality.Valid)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
