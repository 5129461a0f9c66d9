package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string `json:"studentId" validate:"notblank"`
	DOB   string `json:"dateOfBirth" validate:"required,ddmmyyyy"`
	Email string `json:"email" validate:"omitempty,email"`
	Seats int    `json:"capacity" validate:"gte=-1"`
}

func TestIsDDMMYYYY(t *testing.T) {
	assert.True(t, IsDDMMYYYY("14/02/2008"))
	assert.True(t, IsDDMMYYYY("29/02/2008"))

	for _, bad := range []string{"", "2008-02-14", "29/02/2007", "1/2/2008", "31/04/2010", "14/13/2008"} {
		assert.False(t, IsDDMMYYYY(bad), bad)
	}
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(record{ID: "001", DOB: "01/01/2000", Seats: -1}))
	require.NoError(t, Struct(record{ID: "001", DOB: "01/01/2000", Email: "a@b.co", Seats: 30}))
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(record{ID: "  ", DOB: "2000-01-01", Email: "nope", Seats: -2})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Equal(t, "studentId is required", msgs["studentId"])
	assert.Equal(t, "dateOfBirth must be a date in DD/MM/YYYY format", msgs["dateOfBirth"])
	assert.Equal(t, "email must be a valid email address", msgs["email"])
	assert.Equal(t, "capacity must be greater than or equal to -1", msgs["capacity"])
}

func TestMessages_NonValidationError(t *testing.T) {
	assert.Nil(t, Messages(assert.AnError))
}
