package models

import (
	"fmt"
	"time"

	"github.com/yigit/registrar/internal/pkg/helpers"
)

// DateOfBirthLayout is the on-disk format of the dateofbirth column (DD/MM/YYYY)
const DateOfBirthLayout = "02/01/2006"

// Student defines the student model based on the 'students' table
type Student struct {
	StudentID   ID     `json:"studentId" db:"student_id" validate:"required" example:"66051054"`
	Title       string `json:"title" db:"title" example:"Mr."`
	FirstName   string `json:"firstName" db:"first_name" validate:"required" example:"Somchai"`
	LastName    string `json:"lastName" db:"last_name" validate:"required" example:"Jaidee"`
	DateOfBirth string `json:"dateOfBirth" db:"dateofbirth" validate:"required,ddmmyyyy" example:"14/02/2008"`
	School      string `json:"school" db:"school" example:"Bangkok Christian College"`
	Email       string `json:"email" db:"email" validate:"omitempty,email" example:"somchai@example.ac.th"`
}

// FullName joins title, first and last name the way the profile screen shows it
func (s Student) FullName() string {
	if s.Title == "" {
		return s.FirstName + " " + s.LastName
	}
	return s.Title + " " + s.FirstName + " " + s.LastName
}

// BirthDate parses DateOfBirth in the given location
func (s Student) BirthDate(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	dob, err := time.ParseInLocation(DateOfBirthLayout, s.DateOfBirth, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date of birth %q: %w", s.DateOfBirth, err)
	}
	return dob, nil
}

// AgeAt returns the student's age in whole years at now, computed as the number of
// elapsed calendar days divided by 365 (rounded down). Days are counted between the
// wall-clock dates, so daylight saving shifts in now's zone do not change the count.
func (s Student) AgeAt(now time.Time) (int, error) {
	dob, err := s.BirthDate(now.Location())
	if err != nil {
		return 0, err
	}
	days := helpers.CalendarDaysBetween(dob, now)
	if days < 0 {
		// floor division for birth dates in the future
		return (days - 364) / 365, nil
	}
	return days / 365, nil
}
