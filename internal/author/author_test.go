package author

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateInput
		field   string
		message string
	}{
		{"empty name", CreateInput{Name: "   "}, "name", "Name is a required field."},
		{"digits in name", CreateInput{Name: "R2D2"}, "name", "Name must not contain numbers or start with a space."},
		{"name too long", CreateInput{Name: strings.Repeat("a", MaxNameLength+1)}, "name", "Name must be at most 100 characters."},
		{"bad birth date", CreateInput{Name: "Ann", BirthDate: "01/02/1900"}, "birth_date", "Invalid birth date format."},
		{"bad death date", CreateInput{Name: "Ann", DateOfDeath: "yesterday"}, "date_of_death", "Invalid death date format."},
		{"death before birth", CreateInput{Name: "Ann", BirthDate: "1900-01-01", DateOfDeath: "1899-01-01"}, "date_of_death", "Death date cannot be earlier than birth date."},
		{"too young", CreateInput{Name: "Ann", BirthDate: "1900-01-01", DateOfDeath: "1915-06-01"}, "date_of_death", "Author must have been at least 16 years old."},
		{"death in future with birth", CreateInput{Name: "Ann", BirthDate: "1990-01-01", DateOfDeath: "2030-01-01"}, "date_of_death", "Death date cannot be in the future."},
		{"death in future alone", CreateInput{Name: "Ann", DateOfDeath: "2030-01-01"}, "date_of_death", "Death date cannot be in the future."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.in, now)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	a, err := Validate(CreateInput{Name: "  Jane Austen ", BirthDate: "1775-12-16", DateOfDeath: "1817-07-18"}, now)
	require.NoError(t, err)
	assert.Equal(t, "Jane Austen", a.Name)
	require.NotNil(t, a.BirthDate)
	require.NotNil(t, a.DateOfDeath)
	assert.Equal(t, 1775, a.BirthDate.Year())
	assert.Equal(t, 1817, a.DateOfDeath.Year())

	a, err = Validate(CreateInput{Name: "Living Author"}, now)
	require.NoError(t, err)
	assert.Nil(t, a.BirthDate)
	assert.Nil(t, a.DateOfDeath)
}

func TestValidate_NameLengthCountsCharacters(t *testing.T) {
	name := strings.Repeat("é", MaxNameLength)
	a, err := Validate(CreateInput{Name: "  " + name + "  "}, now)
	require.NoError(t, err)
	assert.Equal(t, name, a.Name)
}

func TestValidate_ExactlySixteen(t *testing.T) {
	// 16*365 days plus three leap days (1900 is not a leap year).
	_, err := Validate(CreateInput{Name: "Ann", BirthDate: "1900-01-01", DateOfDeath: "1916-01-01"}, now)
	assert.NoError(t, err)
}
