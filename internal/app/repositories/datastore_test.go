package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// memoryBackend keeps saved tables in memory and counts calls
type memoryBackend struct {
	tables  Tables
	loads   int
	saves   int
	saveErr error
}

func (m *memoryBackend) Load(ctx context.Context) (*Tables, error) {
	m.loads++
	copied := cloneTables(m.tables)
	return &copied, nil
}

func (m *memoryBackend) Save(ctx context.Context, tables *Tables) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.tables = cloneTables(*tables)
	return nil
}

func cloneTables(t Tables) Tables {
	out := Tables{
		Students: append([]models.Student(nil), t.Students...),
		Subjects: append([]models.Subject(nil), t.Subjects...),
	}
	for _, e := range t.Enrollments {
		out.Enrollments = append(out.Enrollments, copyEnrollment(e))
	}
	return out
}

func newStore(t *testing.T, seed Tables) (*DataStore, *memoryBackend) {
	t.Helper()
	backend := &memoryBackend{tables: seed}
	store, err := NewDataStore(context.Background(), backend, zerolog.Nop())
	require.NoError(t, err)
	return store, backend
}

func TestDataStore_MutationsStayInMemoryUntilSave(t *testing.T) {
	store, backend := newStore(t, Tables{})

	require.NoError(t, store.AppendSubject(models.Subject{SubjectID: "CS101", Capacity: 2}))
	store.AppendEnrollment(models.Enrollment{StudentID: "1", SubjectID: "CS101"})
	require.True(t, store.IncrementEnrollment("CS101"))

	require.Equal(t, 0, backend.saves)
	require.Empty(t, backend.tables.Subjects)

	require.NoError(t, store.Save(context.Background()))
	require.Equal(t, 1, backend.saves)
	require.Equal(t, 1, store.SaveCount())
	require.Equal(t, 1, backend.tables.Subjects[0].CurrentEnrollment)
	require.Len(t, backend.tables.Enrollments, 1)
}

func TestDataStore_SaveFailureIsReturned(t *testing.T) {
	store, backend := newStore(t, Tables{})
	backend.saveErr = errors.New("disk full")

	err := store.Save(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
	require.Equal(t, 0, store.SaveCount())
}

func TestDataStore_AppendRejectsDuplicateIDs(t *testing.T) {
	store, _ := newStore(t, Tables{
		Students: []models.Student{{StudentID: "1"}},
		Subjects: []models.Subject{{SubjectID: "CS101"}},
	})

	err := store.AppendStudent(models.Student{StudentID: "1"})
	require.ErrorIs(t, err, apperrors.ErrStudentAlreadyExists)
	require.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	err = store.AppendSubject(models.Subject{SubjectID: "CS101"})
	require.ErrorIs(t, err, apperrors.ErrSubjectAlreadyExists)

	require.Len(t, store.Students(), 1)
	require.Len(t, store.Subjects(), 1)
}

func TestDataStore_SetGradeOverwritesEveryMatch(t *testing.T) {
	store, _ := newStore(t, Tables{
		Enrollments: []models.Enrollment{
			{StudentID: "1", SubjectID: "CS101", Grade: grade("C")},
			{StudentID: "2", SubjectID: "CS101"},
		},
	})

	require.Equal(t, 1, store.SetGrade("1", "CS101", "A"))
	require.Equal(t, 0, store.SetGrade("3", "CS101", "A"))

	rows := store.Enrollments()
	require.Equal(t, "A", *rows[0].Grade)
	require.Nil(t, rows[1].Grade)
}

func TestDataStore_SetGradeStoresNormalizedGrade(t *testing.T) {
	store, _ := newStore(t, Tables{
		Enrollments: []models.Enrollment{{StudentID: "1", SubjectID: "CS101", Grade: grade("C")}},
	})

	require.Equal(t, 1, store.SetGrade("1", "CS101", " B+ "))
	require.Equal(t, "B+", *store.Enrollments()[0].Grade)

	require.Equal(t, 1, store.SetGrade("1", "CS101", "  "))
	require.Nil(t, store.Enrollments()[0].Grade)
}

func TestDataStore_AccessorsReturnCopies(t *testing.T) {
	store, _ := newStore(t, Tables{
		Subjects:    []models.Subject{{SubjectID: "CS101"}},
		Enrollments: []models.Enrollment{{StudentID: "1", SubjectID: "CS101", Grade: grade("A")}},
	})

	subjects := store.Subjects()
	subjects[0].CurrentEnrollment = 99
	rows := store.Enrollments()
	*rows[0].Grade = "F"

	require.Equal(t, 0, store.Subjects()[0].CurrentEnrollment)
	require.Equal(t, "A", *store.Enrollments()[0].Grade)
}

func TestDataStore_LoadDiscardsUnsavedChanges(t *testing.T) {
	store, backend := newStore(t, Tables{Students: []models.Student{{StudentID: "1"}}})

	require.NoError(t, store.AppendStudent(models.Student{StudentID: "2"}))
	require.NoError(t, store.Load(context.Background()))

	require.Len(t, store.Students(), 1)
	require.Equal(t, 2, backend.loads)
}

func TestRepositories_Lookups(t *testing.T) {
	store, _ := newStore(t, Tables{
		Students: []models.Student{{StudentID: "1"}, {StudentID: "2"}},
		Subjects: []models.Subject{{SubjectID: "A"}, {SubjectID: "B"}, {SubjectID: "C"}},
		Enrollments: []models.Enrollment{
			{StudentID: "1", SubjectID: "A", Grade: grade("F")},
			{StudentID: "1", SubjectID: "B"},
			{StudentID: "2", SubjectID: "C"},
		},
	})
	repos := NewRepositories(store)

	require.True(t, repos.StudentRepository.Exists("2"))
	_, err := repos.StudentRepository.GetByID("9")
	require.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	require.Len(t, repos.SubjectRepository.FindByID("B"), 1)
	require.Empty(t, repos.SubjectRepository.FindByID("Z"))

	taken := repos.EnrollmentRepository.SubjectIDsForStudent("1")
	require.Equal(t, []models.Subject{{SubjectID: "C"}}, repos.SubjectRepository.ExcludingIDs(taken))

	require.True(t, repos.EnrollmentRepository.HasCompleted("1", "A"))
	require.False(t, repos.EnrollmentRepository.HasCompleted("1", "B"))
	require.True(t, repos.EnrollmentRepository.Exists("1", "B"))
	require.Len(t, repos.EnrollmentRepository.GetByStudent("1"), 2)
}
