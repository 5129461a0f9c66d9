package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// DefaultMinimumAge is the youngest age allowed to register for any subject
const DefaultMinimumAge = 15

// Outcome messages
const (
	MsgEligible             = "Eligible for registration."
	MsgSubjectFull          = "Subject is full."
	MsgAlreadyRegistered    = "You have already registered for this subject."
	MsgRegistrationComplete = "Registration successful."
)

// EventPublisher receives an event after every successful mutation
type EventPublisher interface {
	Publish(event models.Event)
}

// RegistrationService applies the registration rules to the data store
type RegistrationService struct {
	store       *repositories.DataStore
	students    *repositories.StudentRepository
	subjects    *repositories.SubjectRepository
	enrollments *repositories.EnrollmentRepository

	minimumAge int
	now        func() time.Time
	validate   *validator.Validate
	events     EventPublisher
	logger     zerolog.Logger

	// mu serializes each load-check-mutate-save cycle
	mu sync.Mutex
}

// RegistrationOption configures a RegistrationService
type RegistrationOption func(*RegistrationService)

// WithMinimumAge overrides the minimum registration age
func WithMinimumAge(age int) RegistrationOption {
	return func(s *RegistrationService) {
		s.minimumAge = age
	}
}

// WithClock overrides the time source used for age checks
func WithClock(now func() time.Time) RegistrationOption {
	return func(s *RegistrationService) {
		s.now = now
	}
}

// WithEventPublisher sets the publisher notified after mutations
func WithEventPublisher(p EventPublisher) RegistrationOption {
	return func(s *RegistrationService) {
		s.events = p
	}
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(repos *repositories.Repositories, logger zerolog.Logger, opts ...RegistrationOption) *RegistrationService {
	s := &RegistrationService{
		store:       repos.Store,
		students:    repos.StudentRepository,
		subjects:    repos.SubjectRepository,
		enrollments: repos.EnrollmentRepository,
		minimumAge:  DefaultMinimumAge,
		now:         time.Now,
		validate:    validation.Validator(),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MinimumAge returns the configured minimum registration age
func (s *RegistrationService) MinimumAge() int {
	return s.minimumAge
}

// StudentExists reports whether a student with the id is stored
func (s *RegistrationService) StudentExists(ctx context.Context, studentID models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.students.Exists(studentID)
}

// SubjectExists reports whether a subject with the id is stored
func (s *RegistrationService) SubjectExists(ctx context.Context, subjectID models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.subjects.Exists(subjectID)
}

// GetAllSubjects returns every subject in storage order
func (s *RegistrationService) GetAllSubjects(ctx context.Context) []models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects := s.subjects.GetAll()
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects
}

// GetSubjectDetails returns every subject row with the id, possibly none
func (s *RegistrationService) GetSubjectDetails(ctx context.Context, subjectID models.ID) []models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.subjects.FindByID(subjectID)
}

// IsEligibleForRegistration checks age, capacity and prerequisite for the pair.
// It does not look at existing registrations.
func (s *RegistrationService) IsEligibleForRegistration(ctx context.Context, studentID, subjectID models.ID) models.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.eligibility(studentID, subjectID)
}

func (s *RegistrationService) eligibility(studentID, subjectID models.ID) models.Outcome {
	student, err := s.students.GetByID(studentID)
	if err != nil {
		return models.Failed(fmt.Sprintf("Student ID %s not found.", studentID))
	}

	age, err := student.AgeAt(s.now())
	if err != nil {
		s.logger.Warn().Err(err).Str("studentId", studentID.String()).Msg("Unreadable date of birth")
		return models.Failed(fmt.Sprintf("Invalid date of birth for student %s.", studentID))
	}
	if age < s.minimumAge {
		return models.Failed(fmt.Sprintf("Student must be at least %d years old.", s.minimumAge))
	}

	subject, err := s.subjects.GetByID(subjectID)
	if err != nil {
		return models.Failed(fmt.Sprintf("Subject ID %s not found.", subjectID))
	}

	if subject.IsFull() {
		return models.Failed(MsgSubjectFull)
	}

	if subject.HasPrerequisite() && !s.enrollments.HasCompleted(studentID, subject.Prerequisite) {
		return models.Failed(fmt.Sprintf("Prerequisite subject %s has not been completed.", subject.Prerequisite))
	}

	return models.Succeeded(MsgEligible)
}

// RegisterSubject enrolls the student if eligible and not already registered, then saves
func (s *RegistrationService) RegisterSubject(ctx context.Context, studentID, subjectID models.ID) (models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.eligibility(studentID, subjectID)
	if !outcome.Success {
		return outcome, nil
	}

	if s.enrollments.Exists(studentID, subjectID) {
		return models.Failed(MsgAlreadyRegistered), nil
	}

	s.subjects.IncrementEnrollment(subjectID)
	s.enrollments.Create(studentID, subjectID)

	if err := s.store.Save(ctx); err != nil {
		return models.Outcome{}, fmt.Errorf("register %s for %s: %w", studentID, subjectID, err)
	}

	s.logger.Info().
		Str("studentId", studentID.String()).
		Str("subjectId", subjectID.String()).
		Msg("Student registered")

	enrolled := 0
	if subject, err := s.subjects.GetByID(subjectID); err == nil {
		enrolled = subject.CurrentEnrollment
	}
	s.publish(models.Event{
		Type:       models.EventRegistration,
		StudentID:  studentID,
		SubjectID:  subjectID,
		Enrollment: enrolled,
	})

	return models.Succeeded(MsgRegistrationComplete), nil
}

// GetStudentProfile returns the student with every enrollment row, or false if unknown
func (s *RegistrationService) GetStudentProfile(ctx context.Context, studentID models.ID) (*models.StudentProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, err := s.students.GetByID(studentID)
	if err != nil {
		return nil, false
	}

	return &models.StudentProfile{
		Student:          student,
		EnrolledSubjects: s.enrollments.GetByStudent(studentID),
	}, true
}

// GetSubjectsNotRegistered returns subjects the student has no enrollment row for.
// Eligibility is not applied.
func (s *RegistrationService) GetSubjectsNotRegistered(ctx context.Context, studentID models.ID) []models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.subjects.ExcludingIDs(s.enrollments.SubjectIDsForStudent(studentID))
}

// AddGrade overwrites the grade on every matching enrollment row and saves.
// The grade is trimmed; a blank grade is rejected.
func (s *RegistrationService) AddGrade(ctx context.Context, studentID, subjectID models.ID, grade string) error {
	normalized := models.NormalizeGrade(grade)
	if normalized == nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "grade must not be blank").
			WithDetails(map[string]interface{}{"grade": "must not be blank"})
	}
	grade = *normalized

	s.mu.Lock()
	defer s.mu.Unlock()

	touched := s.enrollments.SetGrade(studentID, subjectID, grade)
	if touched == 0 {
		s.logger.Warn().
			Str("studentId", studentID.String()).
			Str("subjectId", subjectID.String()).
			Msg("Grade recorded for a pair without an enrollment row")
	}

	if err := s.store.Save(ctx); err != nil {
		return fmt.Errorf("add grade for %s in %s: %w", studentID, subjectID, err)
	}

	s.publish(models.Event{
		Type:      models.EventGrade,
		StudentID: studentID,
		SubjectID: subjectID,
		Grade:     grade,
	})
	return nil
}

// AddStudent validates and appends a student, then saves
func (s *RegistrationService) AddStudent(ctx context.Context, student models.Student) error {
	student.StudentID = models.NewID(student.StudentID.String())
	if err := s.validateRecord(student); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.students.Create(student); err != nil {
		return err
	}
	if err := s.store.Save(ctx); err != nil {
		return fmt.Errorf("add student %s: %w", student.StudentID, err)
	}

	s.logger.Info().Str("studentId", student.StudentID.String()).Msg("Student added")
	s.publish(models.Event{Type: models.EventStudentAdded, StudentID: student.StudentID})
	return nil
}

// AddSubject validates and appends a subject with the enrollment count reset, then saves
func (s *RegistrationService) AddSubject(ctx context.Context, subject models.Subject) error {
	subject.SubjectID = models.NewID(subject.SubjectID.String())
	subject.Prerequisite = models.NewID(subject.Prerequisite.String())
	subject.CurrentEnrollment = 0
	if err := s.validateRecord(subject); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.subjects.Create(subject); err != nil {
		return err
	}
	if err := s.store.Save(ctx); err != nil {
		return fmt.Errorf("add subject %s: %w", subject.SubjectID, err)
	}

	s.logger.Info().Str("subjectId", subject.SubjectID.String()).Msg("Subject added")
	s.publish(models.Event{Type: models.EventSubjectAdded, SubjectID: subject.SubjectID})
	return nil
}

func (s *RegistrationService) validateRecord(record interface{}) error {
	err := s.validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]interface{}, len(verrs))
		for field, msg := range validation.Messages(verrs) {
			details[field] = msg
		}
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, validation.Message(verrs[0])).
			WithDetails(details)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
}

func (s *RegistrationService) publish(event models.Event) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.now()
	s.events.Publish(event)
}
