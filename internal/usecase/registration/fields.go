package registration

import "registration-agent/internal/domain/entity"

// Element names used by the registration page.
const (
	slotGroupName    = "regKey"
	submitButtonName = "myButton"
)

// phoneCandidates is tried in order; the page has shipped under each name.
var phoneCandidates = []string{"mobile", "phone", "cellphone", "telephone"}

const birthDateFormatWarning = "birth date must be YYYY/MM/DD"

// DefaultFields is the population table, in fill order.
func DefaultFields() []entity.FieldSpec {
	return []entity.FieldSpec{
		textField("id_number", "identity number", func(p entity.Profile) string { return p.IDNumber }, "pid"),
		textField("name", "name", func(p entity.Profile) string { return p.Name }, "pname"),
		birthField("birth_year", "birth year", "pbirth_yyyy", func(b entity.BirthDate) string { return b.Year }),
		birthField("birth_month", "birth month", "pbirth_mm", func(b entity.BirthDate) string { return b.Month }),
		birthField("birth_day", "birth day", "pbirth_dd", func(b entity.BirthDate) string { return b.Day }),
		textField("phone", "mobile phone", func(p entity.Profile) string { return p.Phone }, phoneCandidates...),
		textField("zipcode", "postal code", func(p entity.Profile) string { return p.ZipCode }, "zipcode"),
		textField("address", "address", func(p entity.Profile) string { return p.Address }, "addr"),
		textField("emergency_contact_name", "emergency contact name", func(p entity.Profile) string { return p.EmergencyContactName }, "emConName"),
		textField("emergency_contact_phone", "emergency contact phone", func(p entity.Profile) string { return p.EmergencyContactPhone }, "emConPhone"),

		choiceField("passive_smoking", "passive smoking", "smok_secondhand", func(p entity.Profile) bool { return p.PassiveSmoking }),
		choiceField("smoking_habit", "smoking habit", "smok_use", func(p entity.Profile) bool { return p.SmokingHabit }),
		choiceField("drinking_habit", "drinking habit", "smok_drike", func(p entity.Profile) bool { return p.DrinkingHabit }),
		choiceField("betel_nut_habit", "betel nut habit", "smok_betelnut", func(p entity.Profile) bool { return p.BetelNutHabit }),

		choiceField("agree_data_collection", "data sharing consent", "q2", func(p entity.Profile) bool { return p.AgreeDataCollection }),
		choiceField("agree_satisfaction_survey", "satisfaction survey consent", "q3", func(p entity.Profile) bool { return p.AgreeSatisfactionSurvey }),
	}
}

func textField(field, label string, value func(entity.Profile) string, names ...string) entity.FieldSpec {
	return entity.FieldSpec{
		Field:      field,
		Label:      label,
		Kind:       entity.FieldKindText,
		Candidates: names,
		Text:       value,
	}
}

func choiceField(field, label, name string, value func(entity.Profile) bool) entity.FieldSpec {
	return entity.FieldSpec{
		Field:      field,
		Label:      label,
		Kind:       entity.FieldKindChoice,
		Candidates: []string{name},
		Choice:     value,
	}
}

func birthField(field, label, name string, part func(entity.BirthDate) string) entity.FieldSpec {
	return entity.FieldSpec{
		Field:      field,
		Label:      label,
		Kind:       entity.FieldKindText,
		Candidates: []string{name},
		Text: func(p entity.Profile) string {
			b, _ := entity.SplitBirthDate(p.BirthDate)
			return part(b)
		},
		Skip: func(p entity.Profile) string {
			if _, ok := entity.SplitBirthDate(p.BirthDate); !ok {
				return birthDateFormatWarning
			}
			return ""
		},
	}
}
