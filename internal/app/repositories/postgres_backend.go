package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/dberrors"
)

// PostgresBackend stores the three tables in PostgreSQL. Save rewrites whole tables
// in one transaction, the same way the CSV backend rewrites whole files.
type PostgresBackend struct {
	db     *db.PostgresDB
	sb     squirrel.StatementBuilderType
	logger zerolog.Logger
}

// NewPostgresBackend creates a PostgresBackend. The schema must already be migrated.
func NewPostgresBackend(database *db.PostgresDB, logger zerolog.Logger) *PostgresBackend {
	return &PostgresBackend{
		db:     database,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: logger,
	}
}

// Load reads every table ordered by row position
func (b *PostgresBackend) Load(ctx context.Context) (*Tables, error) {
	tables := &Tables{}

	if err := b.loadStudents(ctx, tables); err != nil {
		return nil, err
	}
	if err := b.loadSubjects(ctx, tables); err != nil {
		return nil, err
	}
	if err := b.loadEnrollments(ctx, tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (b *PostgresBackend) loadStudents(ctx context.Context, tables *Tables) error {
	sql, args, err := b.sb.Select(StudentColumns...).From("students").OrderBy("seq ASC").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build load students query: %w", err)
	}

	rows, err := b.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		b.logger.Error().Err(err).Msg("Error executing load students query")
		return fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		s := models.Student{}
		if err := rows.Scan(&id, &s.Title, &s.FirstName, &s.LastName, &s.DateOfBirth, &s.School, &s.Email); err != nil {
			return fmt.Errorf("error scanning student row: %w", err)
		}
		s.StudentID = models.NewID(id)
		tables.Students = append(tables.Students, s)
	}
	return rows.Err()
}

func (b *PostgresBackend) loadSubjects(ctx context.Context, tables *Tables) error {
	sql, args, err := b.sb.Select(SubjectColumns...).From("subjects").OrderBy("seq ASC").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build load subjects query: %w", err)
	}

	rows, err := b.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		b.logger.Error().Err(err).Msg("Error executing load subjects query")
		return fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, prerequisite string
		s := models.Subject{}
		if err := rows.Scan(&id, &s.Name, &s.Credit, &s.Instructor, &prerequisite, &s.Capacity, &s.CurrentEnrollment); err != nil {
			return fmt.Errorf("error scanning subject row: %w", err)
		}
		s.SubjectID = models.NewID(id)
		s.Prerequisite = models.NewID(prerequisite)
		tables.Subjects = append(tables.Subjects, s)
	}
	return rows.Err()
}

func (b *PostgresBackend) loadEnrollments(ctx context.Context, tables *Tables) error {
	sql, args, err := b.sb.Select(EnrollmentColumns...).From("enrollments").OrderBy("seq ASC").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build load enrollments query: %w", err)
	}

	rows, err := b.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		b.logger.Error().Err(err).Msg("Error executing load enrollments query")
		return fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var studentID, subjectID string
		var grade *string
		if err := rows.Scan(&studentID, &subjectID, &grade); err != nil {
			return fmt.Errorf("error scanning enrollment row: %w", err)
		}
		tables.Enrollments = append(tables.Enrollments, models.Enrollment{
			StudentID: models.NewID(studentID),
			SubjectID: models.NewID(subjectID),
			Grade:     grade,
		})
	}
	return rows.Err()
}

// Save replaces the contents of all three tables atomically
func (b *PostgresBackend) Save(ctx context.Context, tables *Tables) error {
	statements, err := b.rewriteStatements(tables)
	if err != nil {
		return err
	}

	err = b.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt.sql, stmt.args...); err != nil {
				b.logger.Error().Err(err).Str("sql", stmt.sql).Msg("Error rewriting table")
				return fmt.Errorf("error rewriting tables: %w", err)
			}
		}
		return nil
	})
	return translateSaveError(err)
}

// translateSaveError maps PostgreSQL failures onto the application errors
func translateSaveError(err error) error {
	switch {
	case err == nil:
		return nil
	case dberrors.IsDuplicateConstraintError(err, dberrors.StudentIDConstraint):
		return fmt.Errorf("%w: %v", apperrors.ErrStudentAlreadyExists, err)
	case dberrors.IsDuplicateConstraintError(err, dberrors.SubjectIDConstraint):
		return fmt.Errorf("%w: %v", apperrors.ErrSubjectAlreadyExists, err)
	case dberrors.IsConnectionError(err):
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	default:
		return err
	}
}

type statement struct {
	sql  string
	args []interface{}
}

// rewriteStatements builds the delete-then-insert statements for a full rewrite
func (b *PostgresBackend) rewriteStatements(tables *Tables) ([]statement, error) {
	var out []statement
	add := func(builder squirrel.Sqlizer) error {
		sql, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build rewrite query: %w", err)
		}
		out = append(out, statement{sql: sql, args: args})
		return nil
	}

	for _, table := range []string{"enrollments", "subjects", "students"} {
		if err := add(b.sb.Delete(table)); err != nil {
			return nil, err
		}
	}

	if len(tables.Students) > 0 {
		insert := b.sb.Insert("students").Columns(append([]string{"seq"}, StudentColumns...)...)
		for i, s := range tables.Students {
			insert = insert.Values(i, s.StudentID.String(), s.Title, s.FirstName, s.LastName, s.DateOfBirth, s.School, s.Email)
		}
		if err := add(insert); err != nil {
			return nil, err
		}
	}

	if len(tables.Subjects) > 0 {
		insert := b.sb.Insert("subjects").Columns(append([]string{"seq"}, SubjectColumns...)...)
		for i, s := range tables.Subjects {
			insert = insert.Values(i, s.SubjectID.String(), s.Name, s.Credit, s.Instructor, s.Prerequisite.String(), s.Capacity, s.CurrentEnrollment)
		}
		if err := add(insert); err != nil {
			return nil, err
		}
	}

	if len(tables.Enrollments) > 0 {
		insert := b.sb.Insert("enrollments").Columns(append([]string{"seq"}, EnrollmentColumns...)...)
		for i, e := range tables.Enrollments {
			insert = insert.Values(i, e.StudentID.String(), e.SubjectID.String(), e.Grade)
		}
		if err := add(insert); err != nil {
			return nil, err
		}
	}

	return out, nil
}
