package repositories

import (
	"github.com/yigit/registrar/internal/app/models"
)

// EnrollmentRepository gives typed access to the enrollments table
type EnrollmentRepository struct {
	store *DataStore
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(store *DataStore) *EnrollmentRepository {
	return &EnrollmentRepository{store: store}
}

// GetByStudent returns every enrollment row of the student, graded or not
func (r *EnrollmentRepository) GetByStudent(studentID models.ID) []models.Enrollment {
	rows := []models.Enrollment{}
	for _, e := range r.store.tables.Enrollments {
		if e.StudentID == studentID {
			rows = append(rows, copyEnrollment(e))
		}
	}
	return rows
}

// SubjectIDsForStudent returns the set of subject ids the student has a row for
func (r *EnrollmentRepository) SubjectIDsForStudent(studentID models.ID) map[models.ID]struct{} {
	ids := make(map[models.ID]struct{})
	for _, e := range r.store.tables.Enrollments {
		if e.StudentID == studentID {
			ids[e.SubjectID] = struct{}{}
		}
	}
	return ids
}

// Exists reports whether a row for the (student, subject) pair exists
func (r *EnrollmentRepository) Exists(studentID, subjectID models.ID) bool {
	for _, e := range r.store.tables.Enrollments {
		if e.Matches(studentID, subjectID) {
			return true
		}
	}
	return false
}

// HasCompleted reports whether the pair has a row with a recorded grade
func (r *EnrollmentRepository) HasCompleted(studentID, subjectID models.ID) bool {
	for _, e := range r.store.tables.Enrollments {
		if e.Matches(studentID, subjectID) && e.IsGraded() {
			return true
		}
	}
	return false
}

// Create appends an ungraded row for the pair (memory only)
func (r *EnrollmentRepository) Create(studentID, subjectID models.ID) {
	r.store.AppendEnrollment(models.Enrollment{StudentID: studentID, SubjectID: subjectID})
}

// SetGrade overwrites the grade on matching rows and returns how many matched
func (r *EnrollmentRepository) SetGrade(studentID, subjectID models.ID, grade string) int {
	return r.store.SetGrade(studentID, subjectID, grade)
}
