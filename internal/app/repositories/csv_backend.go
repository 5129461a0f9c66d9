package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
)

// Canonical column sets, written as the header row of each file
var (
	StudentColumns    = []string{"student_id", "title", "first_name", "last_name", "dateofbirth", "school", "email"}
	SubjectColumns    = []string{"subject_id", "subjectname", "credit", "instructor", "prerequisite", "capacity", "current_enrollment"}
	EnrollmentColumns = []string{"student_id", "subject_id", "grade"}
)

// CSVBackend stores each table in its own CSV file with a header row
type CSVBackend struct {
	studentsPath    string
	subjectsPath    string
	enrollmentsPath string
	logger          zerolog.Logger
}

// NewCSVBackend creates a CSVBackend over the three file paths
func NewCSVBackend(studentsPath, subjectsPath, enrollmentsPath string, logger zerolog.Logger) *CSVBackend {
	return &CSVBackend{
		studentsPath:    studentsPath,
		subjectsPath:    subjectsPath,
		enrollmentsPath: enrollmentsPath,
		logger:          logger,
	}
}

// csvRow is one data row addressed by normalized column name
type csvRow map[string]string

// Load reads the three files, creating any missing one with its canonical header
func (b *CSVBackend) Load(ctx context.Context) (*Tables, error) {
	tables := &Tables{}

	studentRows, err := b.readTable(b.studentsPath, StudentColumns)
	if err != nil {
		return nil, err
	}
	for _, row := range studentRows {
		tables.Students = append(tables.Students, models.Student{
			StudentID:   models.NewID(row["student_id"]),
			Title:       row["title"],
			FirstName:   row["first_name"],
			LastName:    row["last_name"],
			DateOfBirth: strings.TrimSpace(row["dateofbirth"]),
			School:      row["school"],
			Email:       row["email"],
		})
	}

	subjectRows, err := b.readTable(b.subjectsPath, SubjectColumns)
	if err != nil {
		return nil, err
	}
	for i, row := range subjectRows {
		subject, err := parseSubjectRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", b.subjectsPath, i+2, err)
		}
		tables.Subjects = append(tables.Subjects, subject)
	}

	enrollmentRows, err := b.readTable(b.enrollmentsPath, EnrollmentColumns)
	if err != nil {
		return nil, err
	}
	for _, row := range enrollmentRows {
		enrollment := models.Enrollment{
			StudentID: models.NewID(row["student_id"]),
			SubjectID: models.NewID(row["subject_id"]),
		}
		enrollment.Grade = models.NormalizeGrade(row["grade"])
		tables.Enrollments = append(tables.Enrollments, enrollment)
	}

	return tables, nil
}

// Save rewrites all three files
func (b *CSVBackend) Save(ctx context.Context, tables *Tables) error {
	studentRecords := make([][]string, 0, len(tables.Students))
	for _, s := range tables.Students {
		studentRecords = append(studentRecords, []string{
			s.StudentID.String(), s.Title, s.FirstName, s.LastName, s.DateOfBirth, s.School, s.Email,
		})
	}
	if err := b.writeTable(b.studentsPath, StudentColumns, studentRecords); err != nil {
		return err
	}

	subjectRecords := make([][]string, 0, len(tables.Subjects))
	for _, s := range tables.Subjects {
		subjectRecords = append(subjectRecords, []string{
			s.SubjectID.String(),
			s.Name,
			strconv.Itoa(s.Credit),
			s.Instructor,
			s.Prerequisite.String(),
			strconv.Itoa(s.Capacity),
			strconv.Itoa(s.CurrentEnrollment),
		})
	}
	if err := b.writeTable(b.subjectsPath, SubjectColumns, subjectRecords); err != nil {
		return err
	}

	enrollmentRecords := make([][]string, 0, len(tables.Enrollments))
	for _, e := range tables.Enrollments {
		grade := ""
		if e.Grade != nil {
			grade = *e.Grade
		}
		enrollmentRecords = append(enrollmentRecords, []string{e.StudentID.String(), e.SubjectID.String(), grade})
	}
	return b.writeTable(b.enrollmentsPath, EnrollmentColumns, enrollmentRecords)
}

// readTable returns the data rows of a file keyed by normalized header names.
// A missing file is created with the canonical header and read as empty.
func (b *CSVBackend) readTable(path string, columns []string) ([]csvRow, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		b.logger.Info().Str("path", path).Msg("Data file not found, creating empty table")
		if err := b.writeTable(path, columns, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = normalizeColumn(header[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if isBlankRecord(record) {
			continue
		}
		row := make(csvRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	b.logger.Debug().Str("path", path).Int("rows", len(rows)).Msg("Data file read")
	return rows, nil
}

// writeTable writes header and records to a temp file and renames it over path
func (b *CSVBackend) writeTable(path string, columns []string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header of %s: %w", path, err)
	}
	if err := writer.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func parseSubjectRow(row csvRow) (models.Subject, error) {
	credit, err := parseIntCell(row["credit"], 0)
	if err != nil {
		return models.Subject{}, fmt.Errorf("credit: %w", err)
	}
	capacity, err := parseIntCell(row["capacity"], models.UnlimitedCapacity)
	if err != nil {
		return models.Subject{}, fmt.Errorf("capacity: %w", err)
	}
	current, err := parseIntCell(row["current_enrollment"], 0)
	if err != nil {
		return models.Subject{}, fmt.Errorf("current_enrollment: %w", err)
	}

	return models.Subject{
		SubjectID:         models.NewID(row["subject_id"]),
		Name:              row["subjectname"],
		Credit:            credit,
		Instructor:        row["instructor"],
		Prerequisite:      models.NewID(row["prerequisite"]),
		Capacity:          capacity,
		CurrentEnrollment: current,
	}, nil
}

// parseIntCell accepts "30" and "30.0"; an empty cell yields def
func parseIntCell(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return int(f), nil
}

// normalizeColumn trims and lower-cases a header name, dropping a UTF-8 BOM
func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
