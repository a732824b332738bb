package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consult-booking-backend/config"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
)

func TestRenderConfirmation(t *testing.T) {
	lead := testLead()
	lead.ProjectName = "Assistant <RH>"

	msg, err := renderMessage(confirmationTemplate, lead)
	require.NoError(t, err)

	assert.Contains(t, msg.html, "Merci Camille")
	assert.Contains(t, msg.html, "lundi 19 octobre 2026")
	assert.Contains(t, msg.html, "09h00")
	assert.Contains(t, msg.html, "Assistant &lt;RH&gt;")
	assert.NotContains(t, msg.html, "<RH>")

	assert.Contains(t, msg.text, "Assistant <RH>")
	assert.Contains(t, msg.text, "Heure  : 09h00")
}

func TestRenderAlert(t *testing.T) {
	lead := testLead()
	lead.Company = "Atelier Nord"

	msg, err := renderMessage(alertTemplate, lead)
	require.NoError(t, err)

	assert.Contains(t, msg.html, "Camille Durand")
	assert.Contains(t, msg.html, "100/100")
	assert.Contains(t, msg.html, "Atelier Nord")
	assert.Contains(t, msg.text, "Entreprise  : Atelier Nord")
	assert.Contains(t, msg.text, "camille@example.com")
}

func testContact() model.Contact {
	return model.Contact{
		ID:                "contact-1",
		Name:              "Jules Martin",
		Email:             "jules@example.com",
		Phone:             "+33611223344",
		ProjectType:       catalog.ProjectEcommerce,
		Message:           "Boutique <Shopify> à migrer",
		PreferredDate:     "2026-10-20",
		PreferredCallTime: "14:30",
	}
}

func TestRenderContactAlert(t *testing.T) {
	msg, err := renderContact(testContact())
	require.NoError(t, err)

	assert.Contains(t, msg.html, "Jules Martin")
	assert.Contains(t, msg.html, "mardi 20 octobre 2026 à 14h30")
	assert.Contains(t, msg.html, "Site E-commerce")
	assert.Contains(t, msg.html, "Boutique &lt;Shopify&gt;")
	assert.Contains(t, msg.html, "Non spécifiée")

	assert.Contains(t, msg.text, "Budget         : Non spécifié")
	assert.Contains(t, msg.text, "Boutique <Shopify> à migrer")

	c := testContact()
	c.Budget = catalog.Budget10kTo20k
	c.Company = "Maison Verte"
	c.Message = ""
	msg, err = renderContact(c)
	require.NoError(t, err)
	assert.Contains(t, msg.text, "Budget         : 10 000€ - 20 000€")
	assert.Contains(t, msg.text, "Société        : Maison Verte")
	assert.Contains(t, msg.text, "Aucun message")
}

func TestContactSummary(t *testing.T) {
	assert.Equal(t,
		"Jules Martin · Site E-commerce · rappel souhaité le mardi 20 octobre 2026 à 14h30",
		contactSummary(testContact()))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "vendredi 1 janvier 2027", displayDate("2027-01-01"))
	assert.Equal(t, "not-a-date", displayDate("not-a-date"))
}

func TestNewMailer(t *testing.T) {
	assert.IsType(t, NoopMailer{}, NewMailer(config.MailConfig{}))
	assert.IsType(t, &SMTPMailer{}, NewMailer(config.MailConfig{Enabled: true, Host: "smtp.example.com"}))
}
