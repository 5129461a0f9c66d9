package repositories

import (
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// Shared repository errors
var (
	ErrStudentNotFound      = apperrors.ErrStudentNotFound
	ErrSubjectNotFound      = apperrors.ErrSubjectNotFound
	ErrStudentAlreadyExists = apperrors.ErrStudentAlreadyExists
	ErrSubjectAlreadyExists = apperrors.ErrSubjectAlreadyExists
)

// Repositories holds all the repository instances over one DataStore
type Repositories struct {
	Store                *DataStore
	StudentRepository    *StudentRepository
	SubjectRepository    *SubjectRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(store *DataStore) *Repositories {
	return &Repositories{
		Store:                store,
		StudentRepository:    NewStudentRepository(store),
		SubjectRepository:    NewSubjectRepository(store),
		EnrollmentRepository: NewEnrollmentRepository(store),
	}
}
