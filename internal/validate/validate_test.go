package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
)

type sample struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"firstName" binding:"required,max=5"`
	Note  string `json:"-"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.KindValidation, ae.Kind)
	out := make(map[string]string, len(ae.Fields))
	for _, f := range ae.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(sample{Email: "not-an-email", Name: "Maximilien"})
	fields := fieldsOf(t, err)

	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at most 5 characters", fields["firstName"])

	assert.NoError(t, Struct(sample{Email: "a@b.fr", Name: "Léa"}))
}

func TestFromBinding_CatalogAlias(t *testing.T) {
	var tod catalog.TimeOfDay
	err := json.Unmarshal([]byte(`"12:15"`), &tod)
	require.Error(t, err)

	fields := fieldsOf(t, FromBinding(err, map[string]string{"time": "consultationTime"}))
	assert.Contains(t, fields["consultationTime"], "12:15")
}

func TestFromBinding_DecodeErrors(t *testing.T) {
	var v struct {
		Age int `json:"age"`
	}
	typeErr := json.Unmarshal([]byte(`{"age":"old"}`), &v)
	assert.Contains(t, fieldsOf(t, FromBinding(typeErr, nil)), "age")

	synErr := json.Unmarshal([]byte(`{`), &v)
	assert.Contains(t, fieldsOf(t, FromBinding(synErr, nil)), "body")
}

func TestPhone(t *testing.T) {
	got, ok := Phone("06 12 34 56 78")
	assert.True(t, ok)
	assert.Equal(t, "+33612345678", got)

	got, ok = Phone("+32 470 12 34 56")
	assert.True(t, ok)
	assert.Equal(t, "+32470123456", got)

	_, ok = Phone("hello")
	assert.False(t, ok)
	_, ok = Phone("")
	assert.False(t, ok)
}
