package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// Admin outcome messages
const (
	MsgGradeStudentNotFound = "Student ID not found."
	MsgGradeSubjectNotFound = "Subject ID not found."
	MsgGradeBlank           = "Grade must not be blank."
)

// AccessService is the session layer in front of the registration rules.
// Student-scoped operations require a StudentIdentity obtained from a student session.
type AccessService struct {
	registration *RegistrationService
	logger       zerolog.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(registration *RegistrationService, logger zerolog.Logger) *AccessService {
	return &AccessService{
		registration: registration,
		logger:       logger,
	}
}

// Login dispatches the user id to the admin or a student session.
// Unknown ids return ErrInvalidCredentials and no session.
func (s *AccessService) Login(ctx context.Context, userID string) (auth.Session, error) {
	if auth.IsAdminUserID(userID) {
		s.logger.Info().Msg("Admin logged in")
		return auth.AdminSession(), nil
	}

	id := models.NewID(userID)
	if id.IsEmpty() || !s.registration.StudentExists(ctx, id) {
		s.logger.Debug().Str("userId", id.String()).Msg("Login rejected")
		return auth.Session{}, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Str("studentId", id.String()).Msg("Student logged in")
	return auth.StudentSession(id), nil
}

// Logout returns the logged-out session
func (s *AccessService) Logout() auth.Session {
	return auth.Session{}
}

// AvailableSubjects lists subjects the student has not registered for
func (s *AccessService) AvailableSubjects(ctx context.Context, student auth.StudentIdentity) []models.Subject {
	return s.registration.GetSubjectsNotRegistered(ctx, student.ID())
}

// Profile returns the student's profile, or false if the student record disappeared
func (s *AccessService) Profile(ctx context.Context, student auth.StudentIdentity) (*models.StudentProfile, bool) {
	return s.registration.GetStudentProfile(ctx, student.ID())
}

// Eligibility checks whether the student may register for the subject
func (s *AccessService) Eligibility(ctx context.Context, student auth.StudentIdentity, subjectID models.ID) models.Outcome {
	return s.registration.IsEligibleForRegistration(ctx, student.ID(), subjectID)
}

// Register registers the student for the subject
func (s *AccessService) Register(ctx context.Context, student auth.StudentIdentity, subjectID models.ID) (models.Outcome, error) {
	return s.registration.RegisterSubject(ctx, student.ID(), subjectID)
}

// AllSubjects lists every subject
func (s *AccessService) AllSubjects(ctx context.Context) []models.Subject {
	return s.registration.GetAllSubjects(ctx)
}

// SubjectDetails lists the subject rows with the id
func (s *AccessService) SubjectDetails(ctx context.Context, subjectID models.ID) []models.Subject {
	return s.registration.GetSubjectDetails(ctx, subjectID)
}

// AddGrade records a grade after checking that both ids exist
func (s *AccessService) AddGrade(ctx context.Context, studentID, subjectID models.ID, grade string) (models.Outcome, error) {
	if !s.registration.StudentExists(ctx, studentID) {
		return models.Failed(MsgGradeStudentNotFound), nil
	}
	if !s.registration.SubjectExists(ctx, subjectID) {
		return models.Failed(MsgGradeSubjectNotFound), nil
	}

	normalized := models.NormalizeGrade(grade)
	if normalized == nil {
		return models.Failed(MsgGradeBlank), nil
	}
	grade = *normalized

	if err := s.registration.AddGrade(ctx, studentID, subjectID, grade); err != nil {
		return models.Outcome{}, err
	}

	return models.Succeeded(fmt.Sprintf("Grade '%s' added for %s in %s.", grade, studentID, subjectID)), nil
}

// AddStudent appends a student record
func (s *AccessService) AddStudent(ctx context.Context, student models.Student) error {
	return s.registration.AddStudent(ctx, student)
}

// AddSubject appends a subject record
func (s *AccessService) AddSubject(ctx context.Context, subject models.Subject) error {
	return s.registration.AddSubject(ctx, subject)
}
