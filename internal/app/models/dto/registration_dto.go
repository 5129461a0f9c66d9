package dto

import "github.com/yigit/registrar/internal/app/models"

// RegisterSubjectRequest asks to register the logged-in student for a subject
type RegisterSubjectRequest struct {
	SubjectID string `json:"subjectId" binding:"notblank" example:"CS101"`
}

// AddGradeRequest records a grade for a (student, subject) pair
type AddGradeRequest struct {
	StudentID string `json:"studentId" binding:"notblank" example:"66051054"`
	SubjectID string `json:"subjectId" binding:"notblank" example:"CS101"`
	Grade     string `json:"grade" binding:"notblank" example:"A"`
}

// CreateStudentRequest represents a new student record
type CreateStudentRequest struct {
	StudentID   string `json:"studentId" binding:"notblank" example:"66051054"`
	Title       string `json:"title" example:"Mr."`
	FirstName   string `json:"firstName" binding:"notblank" example:"Somchai"`
	LastName    string `json:"lastName" binding:"notblank" example:"Jaidee"`
	DateOfBirth string `json:"dateOfBirth" binding:"required,ddmmyyyy" example:"14/02/2008"`
	School      string `json:"school" example:"Bangkok Christian College"`
	Email       string `json:"email" binding:"omitempty,email" example:"somchai@example.ac.th"`
}

// ToModel converts the request into a student record
func (r CreateStudentRequest) ToModel() models.Student {
	return models.Student{
		StudentID:   models.NewID(r.StudentID),
		Title:       r.Title,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		School:      r.School,
		Email:       r.Email,
	}
}

// CreateSubjectRequest represents a new subject record. A missing capacity means unlimited.
type CreateSubjectRequest struct {
	SubjectID    string `json:"subjectId" binding:"notblank" example:"CS201"`
	Name         string `json:"subjectName" binding:"notblank" example:"Data Structures"`
	Credit       int    `json:"credit" binding:"gte=0" example:"3"`
	Instructor   string `json:"instructor" example:"Dr. Anan"`
	Prerequisite string `json:"prerequisite" example:"CS101"`
	Capacity     *int   `json:"capacity" binding:"omitempty,gte=-1" example:"40"`
}

// ToModel converts the request into a subject record
func (r CreateSubjectRequest) ToModel() models.Subject {
	capacity := models.UnlimitedCapacity
	if r.Capacity != nil {
		capacity = *r.Capacity
	}
	return models.Subject{
		SubjectID:    models.NewID(r.SubjectID),
		Name:         r.Name,
		Credit:       r.Credit,
		Instructor:   r.Instructor,
		Prerequisite: models.NewID(r.Prerequisite),
		Capacity:     capacity,
	}
}

// SubjectListResponse wraps a list of subjects with its size
type SubjectListResponse struct {
	Subjects []models.Subject `json:"subjects"`
	Total    int              `json:"total" example:"12"`
}

// NewSubjectListResponse builds a SubjectListResponse, never with a null list
func NewSubjectListResponse(subjects []models.Subject) SubjectListResponse {
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return SubjectListResponse{Subjects: subjects, Total: len(subjects)}
}
