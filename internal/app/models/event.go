package models

import "time"

// EventType names a change broadcast to event subscribers
type EventType string

const (
	EventRegistration EventType = "registration"
	EventGrade        EventType = "grade"
	EventStudentAdded EventType = "student_added"
	EventSubjectAdded EventType = "subject_added"
)

// Event describes a successful mutation of the registration data
type Event struct {
	Type       EventType `json:"type"`
	StudentID  ID        `json:"studentId,omitempty"`
	SubjectID  ID        `json:"subjectId,omitempty"`
	Grade      string    `json:"grade,omitempty"`
	Enrollment int       `json:"currentEnrollment,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
