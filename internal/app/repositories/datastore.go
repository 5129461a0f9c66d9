package repositories

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
)

// Tables is the full content of the three datasets, in storage order
type Tables struct {
	Students    []models.Student
	Subjects    []models.Subject
	Enrollments []models.Enrollment
}

// Backend persists the three datasets as a whole
type Backend interface {
	// Load reads every table. Missing storage is bootstrapped empty, not reported.
	Load(ctx context.Context) (*Tables, error)
	// Save rewrites every table
	Save(ctx context.Context, tables *Tables) error
}

// DataStore owns the in-memory tables. Mutations only touch memory; callers persist
// them with an explicit Save.
type DataStore struct {
	backend Backend
	tables  Tables
	saves   int
	logger  zerolog.Logger
}

// NewDataStore creates a DataStore and loads it from the backend
func NewDataStore(ctx context.Context, backend Backend, logger zerolog.Logger) (*DataStore, error) {
	ds := &DataStore{backend: backend, logger: logger}
	if err := ds.Load(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

// Load replaces the in-memory tables with the backend's contents
func (ds *DataStore) Load(ctx context.Context) error {
	tables, err := ds.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	ds.tables = *tables

	ds.logger.Info().
		Int("students", len(ds.tables.Students)).
		Int("subjects", len(ds.tables.Subjects)).
		Int("enrollments", len(ds.tables.Enrollments)).
		Msg("Data store loaded")
	return nil
}

// Save writes all three tables to the backend
func (ds *DataStore) Save(ctx context.Context) error {
	if err := ds.backend.Save(ctx, &ds.tables); err != nil {
		ds.logger.Error().Err(err).Msg("Failed to save data store")
		return fmt.Errorf("save tables: %w", err)
	}
	ds.saves++
	ds.logger.Debug().Int("saves", ds.saves).Msg("Data store saved")
	return nil
}

// SaveCount reports how many successful saves this store has performed
func (ds *DataStore) SaveCount() int {
	return ds.saves
}

// Snapshot returns a deep copy of the tables
func (ds *DataStore) Snapshot() Tables {
	return Tables{
		Students:    ds.Students(),
		Subjects:    ds.Subjects(),
		Enrollments: ds.Enrollments(),
	}
}

// Students returns a copy of the students table
func (ds *DataStore) Students() []models.Student {
	return append([]models.Student(nil), ds.tables.Students...)
}

// Subjects returns a copy of the subjects table
func (ds *DataStore) Subjects() []models.Subject {
	return append([]models.Subject(nil), ds.tables.Subjects...)
}

// Enrollments returns a copy of the enrollments table
func (ds *DataStore) Enrollments() []models.Enrollment {
	out := make([]models.Enrollment, len(ds.tables.Enrollments))
	for i, e := range ds.tables.Enrollments {
		out[i] = copyEnrollment(e)
	}
	return out
}

// AppendStudent adds a student row. Student ids must be unique.
func (ds *DataStore) AppendStudent(student models.Student) error {
	for _, s := range ds.tables.Students {
		if s.StudentID == student.StudentID {
			return fmt.Errorf("append student %s: %w", student.StudentID, ErrStudentAlreadyExists)
		}
	}
	ds.tables.Students = append(ds.tables.Students, student)
	return nil
}

// AppendSubject adds a subject row. Subject ids must be unique.
func (ds *DataStore) AppendSubject(subject models.Subject) error {
	for _, s := range ds.tables.Subjects {
		if s.SubjectID == subject.SubjectID {
			return fmt.Errorf("append subject %s: %w", subject.SubjectID, ErrSubjectAlreadyExists)
		}
	}
	ds.tables.Subjects = append(ds.tables.Subjects, subject)
	return nil
}

// AppendEnrollment adds an enrollment row without any uniqueness check
func (ds *DataStore) AppendEnrollment(enrollment models.Enrollment) {
	ds.tables.Enrollments = append(ds.tables.Enrollments, copyEnrollment(enrollment))
}

// IncrementEnrollment bumps current_enrollment of every subject row with the id.
// It reports whether any row matched.
func (ds *DataStore) IncrementEnrollment(subjectID models.ID) bool {
	matched := false
	for i := range ds.tables.Subjects {
		if ds.tables.Subjects[i].SubjectID == subjectID {
			ds.tables.Subjects[i].CurrentEnrollment++
			matched = true
		}
	}
	return matched
}

// SetGrade overwrites the grade of every matching enrollment row and returns how many matched.
// The grade is stored normalized, so a blank grade clears it.
func (ds *DataStore) SetGrade(studentID, subjectID models.ID, grade string) int {
	normalized := models.NormalizeGrade(grade)
	touched := 0
	for i := range ds.tables.Enrollments {
		if ds.tables.Enrollments[i].Matches(studentID, subjectID) {
			ds.tables.Enrollments[i].Grade = nil
			if normalized != nil {
				g := *normalized
				ds.tables.Enrollments[i].Grade = &g
			}
			touched++
		}
	}
	return touched
}

func copyEnrollment(e models.Enrollment) models.Enrollment {
	if e.Grade != nil {
		g := *e.Grade
		e.Grade = &g
	}
	return e
}
