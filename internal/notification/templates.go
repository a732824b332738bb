package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
)

const (
	subjectConfirmation = "Votre demande de consultation est confirmée"
	subjectAlertFmt     = "Nouvelle demande : %s (score %d)"
	subjectContactFmt   = "Nouvelle demande de contact - %s"
)

const (
	confirmationTemplate = "lead_confirmation"
	alertTemplate        = "lead_alert"
	contactTemplate      = "contact_alert"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

var weekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

var months = [...]string{"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre"}

type leadEmailData struct {
	Lead        model.Lead
	Date        string
	Time        string
	Modality    string
	Budget      string
	Timeline    string
	ProjectType string
}

type renderedMessage struct {
	text string
	html string
}

type contactEmailData struct {
	Contact     model.Contact
	Date        string
	Time        string
	Budget      string
	ProjectType string
}

func renderMessage(name string, lead model.Lead) (renderedMessage, error) {
	return render(name, leadEmailData{
		Lead:        lead,
		Date:        displayDate(lead.ConsultationDate),
		Time:        displayTime(lead.ConsultationTime),
		Modality:    lead.Modality.Label(),
		Budget:      lead.Budget.Label(),
		Timeline:    lead.Timeline.Label(),
		ProjectType: lead.ProjectType.Label(),
	})
}

func renderContact(contact model.Contact) (renderedMessage, error) {
	budget := "Non spécifié"
	if contact.Budget != "" {
		budget = contact.Budget.Label()
	}
	return render(contactTemplate, contactEmailData{
		Contact:     contact,
		Date:        displayDate(contact.PreferredDate),
		Time:        displayTime(contact.PreferredCallTime),
		Budget:      budget,
		ProjectType: contact.ProjectType.Label(),
	})
}

func render(name string, data any) (renderedMessage, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return renderedMessage{}, fmt.Errorf("render %s.html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return renderedMessage{}, fmt.Errorf("render %s.txt: %w", name, err)
	}
	return renderedMessage{text: text.String(), html: html.String()}, nil
}

// displayDate renders a stored date the French way, e.g. "lundi 19 octobre 2026".
func displayDate(date string) string {
	day, err := catalog.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %d %s %d", weekdays[day.Weekday()], day.Day(), months[day.Month()-1], day.Year())
}

// displayTime renders "09:30" as "09h30".
func displayTime(t catalog.TimeOfDay) string {
	return strings.Replace(string(t), ":", "h", 1)
}

// leadSummary is the one-line description used in push notifications.
func leadSummary(lead model.Lead) string {
	return fmt.Sprintf("%s · %s · %s à %s",
		lead.FullName(), lead.ProjectType.Label(), displayDate(lead.ConsultationDate), lead.ConsultationTime)
}

// contactSummary is the push body of a contact request.
func contactSummary(contact model.Contact) string {
	return fmt.Sprintf("%s · %s · rappel souhaité le %s à %s",
		contact.Name, contact.ProjectType.Label(), displayDate(contact.PreferredDate), displayTime(contact.PreferredCallTime))
}
