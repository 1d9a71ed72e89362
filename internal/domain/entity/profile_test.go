package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_MissingMandatory(t *testing.T) {
	full := Profile{IDNumber: "A123456789", Name: "王小明", BirthDate: "1990/01/01", Phone: "0912345678"}
	assert.Empty(t, full.MissingMandatory())

	assert.Equal(t, []string{"id_number", "name", "birth_date", "phone"}, Profile{}.MissingMandatory())

	p := full
	p.Phone = " \t"
	assert.Equal(t, []string{"phone"}, p.MissingMandatory())
}

func TestSplitBirthDate(t *testing.T) {
	tests := []struct {
		raw  string
		want BirthDate
		ok   bool
	}{
		{"1990/01/01", BirthDate{"1990", "01", "01"}, true},
		{"79/1/2", BirthDate{"79", "1", "2"}, true},
		{"1990/1", BirthDate{}, false},
		{"1990/01/01/", BirthDate{}, false},
		{"/01/01", BirthDate{}, false},
		{"1990-01-01", BirthDate{}, false},
		{"", BirthDate{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := SplitBirthDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldSpec_Locators(t *testing.T) {
	choice := FieldSpec{Kind: FieldKindChoice, Candidates: []string{"q2"}, Choice: func(p Profile) bool { return p.AgreeDataCollection }}
	assert.Equal(t, []Locator{{Name: "q2", Value: "N"}}, choice.Locators(Profile{}))
	assert.Equal(t, []Locator{{Name: "q2", Value: "Y"}}, choice.Locators(Profile{AgreeDataCollection: true}))

	text := FieldSpec{Kind: FieldKindText, Candidates: []string{"mobile", "phone"}}
	assert.Equal(t, []Locator{{Name: "mobile"}, {Name: "phone"}}, text.Locators(Profile{}))
}

func TestSubmissionOutcome_Successful(t *testing.T) {
	assert.True(t, OutcomeAccepted.Successful())
	assert.True(t, OutcomeAmbiguous.Successful())
	assert.False(t, OutcomeRejected.Successful())
	assert.False(t, OutcomeAborted.Successful())
}
