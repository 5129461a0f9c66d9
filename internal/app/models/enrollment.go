package models

import "strings"

// Enrollment links a student to a subject. Grade stays nil until one is recorded.
type Enrollment struct {
	StudentID ID      `json:"studentId" db:"student_id"`
	SubjectID ID      `json:"subjectId" db:"subject_id"`
	Grade     *string `json:"grade" db:"grade"`
}

// IsGraded reports whether a grade has been recorded. Any value counts, including a failing one.
func (e Enrollment) IsGraded() bool {
	return e.Grade != nil
}

// NormalizeGrade trims a grade. A blank grade means ungraded and yields nil, which is
// also what a blank grade cell loads as.
func NormalizeGrade(raw string) *string {
	grade := strings.TrimSpace(raw)
	if grade == "" {
		return nil
	}
	return &grade
}

// Matches reports whether the row belongs to the given (student, subject) pair
func (e Enrollment) Matches(studentID, subjectID ID) bool {
	return e.StudentID == studentID && e.SubjectID == subjectID
}

// StudentProfile is a student record together with all of its enrollment rows
type StudentProfile struct {
	Student          Student      `json:"studentInfo"`
	EnrolledSubjects []Enrollment `json:"enrolledSubjects"`
}
