package entity

import "strings"

// Profile is the caller-owned set of values submitted on the registration form.
type Profile struct {
	IDNumber  string
	Name      string
	BirthDate string
	Phone     string

	Address               string
	ZipCode               string
	EmergencyContactName  string
	EmergencyContactPhone string

	PassiveSmoking bool
	SmokingHabit   bool
	DrinkingHabit  bool
	BetelNutHabit  bool

	AgreeDataCollection     bool
	AgreeSatisfactionSurvey bool
}

// MissingMandatory returns the labels of mandatory fields that are blank, in
// declaration order.
func (p Profile) MissingMandatory() []string {
	var missing []string
	if strings.TrimSpace(p.IDNumber) == "" {
		missing = append(missing, "id_number")
	}
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.BirthDate) == "" {
		missing = append(missing, "birth_date")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

type BirthDate struct {
	Year  string
	Month string
	Day   string
}

// SplitBirthDate decomposes "Y/M/D" into its components without normalising
// them. It reports false unless there are exactly three non-empty parts.
func SplitBirthDate(raw string) (BirthDate, bool) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return BirthDate{}, false
	}
	for _, p := range parts {
		if p == "" {
			return BirthDate{}, false
		}
	}
	return BirthDate{Year: parts[0], Month: parts[1], Day: parts[2]}, true
}

// YesNo maps a boolean onto the option values used by choice inputs.
func YesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
