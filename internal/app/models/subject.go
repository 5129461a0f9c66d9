package models

// UnlimitedCapacity is the capacity sentinel meaning registration is never blocked by size
const UnlimitedCapacity = -1

// Subject defines the subject model based on the 'subjects' table
type Subject struct {
	SubjectID         ID     `json:"subjectId" db:"subject_id" validate:"required" example:"CS101"`
	Name              string `json:"subjectName" db:"subjectname" validate:"required" example:"Introduction to Programming"`
	Credit            int    `json:"credit" db:"credit" validate:"gte=0" example:"3"`
	Instructor        string `json:"instructor" db:"instructor" example:"Dr. Anan"`
	Prerequisite      ID     `json:"prerequisite,omitempty" db:"prerequisite" example:"CS100"`
	Capacity          int    `json:"capacity" db:"capacity" validate:"gte=-1" example:"30"`
	CurrentEnrollment int    `json:"currentEnrollment" db:"current_enrollment" validate:"gte=0" example:"12"`
}

// HasPrerequisite reports whether the subject requires another subject first
func (s Subject) HasPrerequisite() bool {
	return !s.Prerequisite.IsEmpty()
}

// IsUnlimited reports whether the capacity sentinel is set
func (s Subject) IsUnlimited() bool {
	return s.Capacity == UnlimitedCapacity
}

// IsFull reports whether a capacity-limited subject has no seats left
func (s Subject) IsFull() bool {
	return !s.IsUnlimited() && s.CurrentEnrollment >= s.Capacity
}
