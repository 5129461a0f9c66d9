package repositories

import (
	"github.com/yigit/registrar/internal/app/models"
)

// SubjectRepository gives typed access to the subjects table
type SubjectRepository struct {
	store *DataStore
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(store *DataStore) *SubjectRepository {
	return &SubjectRepository{store: store}
}

// GetAll returns every subject in storage order
func (r *SubjectRepository) GetAll() []models.Subject {
	return r.store.Subjects()
}

// FindByID returns every subject row with the id (zero or more)
func (r *SubjectRepository) FindByID(id models.ID) []models.Subject {
	matches := []models.Subject{}
	for _, s := range r.store.tables.Subjects {
		if s.SubjectID == id {
			matches = append(matches, s)
		}
	}
	return matches
}

// GetByID returns the first subject with the id, or ErrSubjectNotFound
func (r *SubjectRepository) GetByID(id models.ID) (models.Subject, error) {
	for _, s := range r.store.tables.Subjects {
		if s.SubjectID == id {
			return s, nil
		}
	}
	return models.Subject{}, ErrSubjectNotFound
}

// Exists reports whether a subject with the id is stored
func (r *SubjectRepository) Exists(id models.ID) bool {
	_, err := r.GetByID(id)
	return err == nil
}

// ExcludingIDs returns subjects whose id is not in the given set, in storage order
func (r *SubjectRepository) ExcludingIDs(ids map[models.ID]struct{}) []models.Subject {
	out := []models.Subject{}
	for _, s := range r.store.tables.Subjects {
		if _, skip := ids[s.SubjectID]; !skip {
			out = append(out, s)
		}
	}
	return out
}

// Create appends a subject row (memory only)
func (r *SubjectRepository) Create(subject models.Subject) error {
	return r.store.AppendSubject(subject)
}

// IncrementEnrollment adds one to current_enrollment
func (r *SubjectRepository) IncrementEnrollment(id models.ID) bool {
	return r.store.IncrementEnrollment(id)
}
