package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	backend *repositories.CSVBackend
	store   *repositories.DataStore
	svc     *RegistrationService
	access  *AccessService
	events  *recordingPublisher
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(event models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}

func newHarness(t *testing.T, tables repositories.Tables) *harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	backend := repositories.NewCSVBackend(
		filepath.Join(dir, "students.csv"),
		filepath.Join(dir, "subjects.csv"),
		filepath.Join(dir, "enrollments.csv"),
		zerolog.Nop(),
	)
	require.NoError(t, backend.Save(ctx, &tables))

	store, err := repositories.NewDataStore(ctx, backend, zerolog.Nop())
	require.NoError(t, err)

	events := &recordingPublisher{}
	svc := NewRegistrationService(
		repositories.NewRepositories(store),
		zerolog.Nop(),
		WithClock(func() time.Time { return testNow }),
		WithEventPublisher(events),
	)

	return &harness{
		backend: backend,
		store:   store,
		svc:     svc,
		access:  NewAccessService(svc, zerolog.Nop()),
		events:  events,
	}
}

// persisted reads the tables back from disk, bypassing the in-memory store
func (h *harness) persisted(t *testing.T) *repositories.Tables {
	t.Helper()
	tables, err := h.backend.Load(context.Background())
	require.NoError(t, err)
	return tables
}

// bornYearsAgo returns a DD/MM/YYYY date exactly years*365 days before testNow, shifted by extraDays
func bornYearsAgo(years, extraDays int) string {
	return testNow.AddDate(0, 0, -years*365+extraDays).Format(models.DateOfBirthLayout)
}

func student(id string, dob string) models.Student {
	return models.Student{
		StudentID:   models.ID(id),
		Title:       "Ms.",
		FirstName:   "First" + id,
		LastName:    "Last" + id,
		DateOfBirth: dob,
		School:      "Test School",
		Email:       "s" + id + "@example.com",
	}
}

func subject(id string, capacity int, prerequisite string) models.Subject {
	return models.Subject{
		SubjectID:    models.ID(id),
		Name:         "Subject " + id,
		Credit:       3,
		Instructor:   "Dr. Test",
		Prerequisite: models.ID(prerequisite),
		Capacity:     capacity,
	}
}

func grade(g string) *string {
	return &g
}
