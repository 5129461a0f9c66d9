package repositories

import (
	"github.com/yigit/registrar/internal/app/models"
)

// StudentRepository gives typed access to the students table
type StudentRepository struct {
	store *DataStore
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(store *DataStore) *StudentRepository {
	return &StudentRepository{store: store}
}

// GetAll returns every student in storage order
func (r *StudentRepository) GetAll() []models.Student {
	return r.store.Students()
}

// GetByID returns the first student with the id, or ErrStudentNotFound
func (r *StudentRepository) GetByID(id models.ID) (models.Student, error) {
	for _, s := range r.store.tables.Students {
		if s.StudentID == id {
			return s, nil
		}
	}
	return models.Student{}, ErrStudentNotFound
}

// Exists reports whether a student with the id is stored
func (r *StudentRepository) Exists(id models.ID) bool {
	_, err := r.GetByID(id)
	return err == nil
}

// Create appends a student row (memory only)
func (r *StudentRepository) Create(student models.Student) error {
	return r.store.AppendStudent(student)
}
