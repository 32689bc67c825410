package author

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const DateLayout = "2006-01-02"

// MaxNameLength matches authors.name VARCHAR(100), counted in characters.
const MaxNameLength = 100

// minAgeAtDeathYears is compared against whole 365-day years.
const minAgeAtDeathYears = 16

var ErrNotFound = errors.New("author not found")

type Author struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	BookCount   int        `json:"book_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ValidationError is a user facing rejection of author input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CreateInput is the raw form input for a new author. Dates are YYYY-MM-DD
// and may be empty.
type CreateInput struct {
	Name        string `json:"name"`
	BirthDate   string `json:"birth_date"`
	DateOfDeath string `json:"date_of_death"`
}

// Validate checks in against the author rules and returns the author to
// store. now is the reference for "in the future".
func Validate(in CreateInput, now time.Time) (Author, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Author{}, &ValidationError{Field: "name", Message: "Name is a required field."}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Author{}, &ValidationError{Field: "name", Message: "Name must be at most 100 characters."}
	}
	if strings.IndexFunc(name, unicode.IsDigit) >= 0 {
		return Author{}, &ValidationError{Field: "name", Message: "Name must not contain numbers or start with a space."}
	}

	a := Author{Name: name}

	if in.BirthDate != "" {
		birth, err := time.Parse(DateLayout, in.BirthDate)
		if err != nil {
			return Author{}, &ValidationError{Field: "birth_date", Message: "Invalid birth date format."}
		}
		a.BirthDate = &birth
	}
	if in.DateOfDeath != "" {
		death, err := time.Parse(DateLayout, in.DateOfDeath)
		if err != nil {
			return Author{}, &ValidationError{Field: "date_of_death", Message: "Invalid death date format."}
		}
		a.DateOfDeath = &death
	}

	if a.DateOfDeath == nil {
		return a, nil
	}
	death := *a.DateOfDeath

	if a.BirthDate != nil {
		birth := *a.BirthDate
		if death.Before(birth) {
			return Author{}, &ValidationError{Field: "date_of_death", Message: "Death date cannot be earlier than birth date."}
		}
		if days := int(death.Sub(birth).Hours() / 24); days/365 < minAgeAtDeathYears {
			return Author{}, &ValidationError{Field: "date_of_death", Message: "Author must have been at least 16 years old."}
		}
	}
	if death.After(now) {
		return Author{}, &ValidationError{Field: "date_of_death", Message: "Death date cannot be in the future."}
	}
	return a, nil
}
