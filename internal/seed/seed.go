package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/app/services"
)

// DefaultStudents are added to an empty store when seeding is enabled
var DefaultStudents = []models.Student{
	{StudentID: "66051001", Title: "Mr.", FirstName: "Somchai", LastName: "Jaidee", DateOfBirth: "14/02/2006", School: "Bangkok Christian College", Email: "somchai.j@example.ac.th"},
	{StudentID: "66051002", Title: "Ms.", FirstName: "Suda", LastName: "Srisuk", DateOfBirth: "03/09/2007", School: "Triam Udom Suksa", Email: "suda.s@example.ac.th"},
	{StudentID: "66051003", Title: "Mr.", FirstName: "Anan", LastName: "Wongsa", DateOfBirth: "21/11/2012", School: "Assumption College", Email: "anan.w@example.ac.th"},
}

// DefaultSubjects are added to an empty store when seeding is enabled
var DefaultSubjects = []models.Subject{
	{SubjectID: "05500001", Name: "Introduction to Programming", Credit: 3, Instructor: "Dr. Kittipong", Capacity: 30},
	{SubjectID: "05500002", Name: "Data Structures", Credit: 3, Instructor: "Dr. Kittipong", Prerequisite: "05500001", Capacity: 25},
	{SubjectID: "05500003", Name: "Discrete Mathematics", Credit: 3, Instructor: "Dr. Pranee", Capacity: models.UnlimitedCapacity},
	{SubjectID: "05500004", Name: "Database Systems", Credit: 3, Instructor: "Dr. Wichai", Prerequisite: "05500002", Capacity: 2},
}

// CreateDefaultData adds demo students and subjects when the store holds neither.
// A store with any existing records is left untouched.
func CreateDefaultData(ctx context.Context, store *repositories.DataStore, svc *services.RegistrationService, lgr zerolog.Logger) error {
	if len(store.Students()) > 0 || len(store.Subjects()) > 0 {
		lgr.Debug().Msg("Store already has data, skipping seed")
		return nil
	}

	lgr.Info().Msg("Creating default students and subjects...")
	var finalErr error

	for _, student := range DefaultStudents {
		if err := svc.AddStudent(ctx, student); err != nil {
			lgr.Error().Err(err).Str("studentId", student.StudentID.String()).Msg("Error creating default student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, subject := range DefaultSubjects {
		if err := svc.AddSubject(ctx, subject); err != nil {
			lgr.Error().Err(err).Str("subjectId", subject.SubjectID.String()).Msg("Error creating default subject")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
