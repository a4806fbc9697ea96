package customvalidator

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Phone     string      `validate:"required,phone"`
	Plate     string      `validate:"required,plate"`
	Slot      string      `validate:"required,slot"`
	Date      string      `validate:"required,date_only"`
	Status    string      `validate:"omitempty,repair_status"`
	Condition string      `validate:"required,vehicle_condition"`
	Role      string      `validate:"omitempty,role"`
	Notes     null.String `validate:"omitempty,max=5"`
}

func validSample() sample {
	return sample{
		Phone:     "+56 9 1234-5678",
		Plate:     "AB-CD12",
		Slot:      "09:30",
		Date:      "2026-03-05",
		Status:    "pending",
		Condition: "regular",
		Role:      "mechanic",
	}
}

func TestValidator_AcceptsValidStruct(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	assert.NoError(t, v.Validate(validSample()))
}

func TestValidator_RejectsBadFields(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	cases := map[string]func(s *sample){
		"short phone":      func(s *sample) { s.Phone = "12-34" },
		"letters in phone": func(s *sample) { s.Phone = "12345678a" },
		"bad slot":         func(s *sample) { s.Slot = "25:00" },
		"bad date":         func(s *sample) { s.Date = "05.03.2026" },
		"bad status":       func(s *sample) { s.Status = "done" },
		"bad condition":    func(s *sample) { s.Condition = "broken" },
		"bad role":         func(s *sample) { s.Role = "admin" },
		"long plate":       func(s *sample) { s.Plate = "ABCDEFGHIJKLMNOPQRSTUV" },
		"long notes":       func(s *sample) { s.Notes = null.StringFrom("too long") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := validSample()
			mutate(&s)
			assert.Error(t, v.Validate(s))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("12345678"))
	assert.True(t, IsValidPhone("+569 8765 4321"))
	assert.False(t, IsValidPhone("1234567"))
	assert.False(t, IsValidPhone("phone"))
}
