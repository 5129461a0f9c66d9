package models

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentAgeAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		dob  string
		want int
	}{
		{"05/06/2010", 15},
		{"06/06/2010", 14},
		{"01/06/2025", 0},
		{"02/06/2025", -1},
	}
	for _, tc := range cases {
		age, err := Student{DateOfBirth: tc.dob}.AgeAt(now)
		require.NoError(t, err, tc.dob)
		assert.Equal(t, tc.want, age, tc.dob)
	}

	_, err := Student{DateOfBirth: "2010-06-01"}.AgeAt(now)
	assert.Error(t, err)
}

func TestStudentAgeAt_CountsCalendarDaysAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// born in standard time; 15*365 days later falls after the spring-forward change
	s := Student{DateOfBirth: "20/03/2000"}

	age, err := s.AgeAt(time.Date(2015, 3, 17, 0, 30, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 15, age)

	age, err = s.AgeAt(time.Date(2015, 3, 16, 23, 59, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 14, age)
}

func TestNormalizeGrade(t *testing.T) {
	assert.Nil(t, NormalizeGrade(""))
	assert.Nil(t, NormalizeGrade(" \t "))
	require.NotNil(t, NormalizeGrade(" A "))
	assert.Equal(t, "A", *NormalizeGrade(" A "))
	assert.Equal(t, "B+", *NormalizeGrade("B+"))
}
