package validator

import "testing"

type profileInput struct {
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Language string `json:"language_preference" validate:"omitempty,language"`
}

type symptomsInput struct {
	Symptoms string `json:"symptoms_description" validate:"required,trimmedmin=10,trimmedmax=2000"`
}

type doctorInput struct {
	Department string `json:"department" validate:"required,department"`
	Start      string `json:"start_time" validate:"required,clock"`
}

func TestPhoneValidation(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		phone string
		valid bool
	}{
		{"", true},
		{"+14155552671", true},
		{"+8613800138000", true},
		{"14155552671", false},
		{"+1415", false},
		{"+1-415-555-2671", false},
		{"+12345678901234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := v.Validate(&profileInput{Phone: tt.phone})
			if (err == nil) != tt.valid {
				t.Errorf("phone %q: err = %v, want valid=%v", tt.phone, err, tt.valid)
			}
		})
	}
}

func TestTrimmedLength(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&symptomsInput{Symptoms: "   short    "}); err == nil {
		t.Error("padding must not count toward the minimum")
	}
	if err := v.Validate(&symptomsInput{Symptoms: "persistent cough"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&doctorInput{Department: "astrology", Start: "9am"})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	errs := v.FormatValidationErrors(err)
	if _, ok := errs["department"]; !ok {
		t.Errorf("missing department error in %v", errs)
	}
	if _, ok := errs["start_time"]; !ok {
		t.Errorf("missing start_time error in %v", errs)
	}
}

func TestLanguageValidation(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&profileInput{Language: "zh-tw"}); err != nil {
		t.Errorf("zh-tw should be valid: %v", err)
	}
	if err := v.Validate(&profileInput{Language: "fr"}); err == nil {
		t.Error("fr should be rejected")
	}
}
