package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testBookRequest struct {
	ISBN     string `json:"isbn" validate:"required,isbn"`
	Title    string `json:"title" validate:"required,max=10"`
	AuthorID int64  `json:"author_id" validate:"required,gt=0"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	s := testBookRequest{ISBN: "9780306406157", Title: "Signals", AuthorID: 1}
	assert.Empty(t, ValidateStruct(s))
}

func TestValidateStruct_RequiredFields(t *testing.T) {
	details := ValidateStruct(testBookRequest{})

	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "isbn is required", fields["isbn"])
	assert.Equal(t, "title is required", fields["title"])
	assert.Equal(t, "author_id is required", fields["author_id"])
}

func TestValidateStruct_ISBN(t *testing.T) {
	testCases := []struct {
		isbn  string
		valid bool
	}{
		{"0306406152", true},
		{"9780306406157", true},
		{"0306406153", true},
		{"080442957X", false},
		{"978-0306406157", false},
		{"12345", false},
	}

	for _, tc := range testCases {
		t.Run(tc.isbn, func(t *testing.T) {
			details := ValidateStruct(testBookRequest{ISBN: tc.isbn, Title: "T", AuthorID: 1})
			if tc.valid {
				assert.Empty(t, details)
				return
			}
			if assert.Len(t, details, 1) {
				assert.Equal(t, "isbn", details[0].Field)
				assert.Equal(t, "ISBN must consist of 10 or 13 digits.", details[0].Message)
			}
		})
	}
}

func TestValidateStruct_Max(t *testing.T) {
	details := ValidateStruct(testBookRequest{ISBN: "0306406152", Title: "A very long title", AuthorID: 1})
	if assert.Len(t, details, 1) {
		assert.Equal(t, "title must be at most 10 characters", details[0].Message)
	}
}
