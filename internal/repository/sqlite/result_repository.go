package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
	"github.com/vytor/prepdash/internal/repository"
)

var resultColumns = []string{
	"id", "student_id", "session_id", "track", "total_count", "correct_count", "report", "completed_at",
}

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

// SaveResult inserts record. Saving a second record for the same session is
// a no-op, so a retried delivery never duplicates a result.
func (r *resultRepository) SaveResult(ctx context.Context, record models.AssessmentRecord) error {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("saving result: id=%s, student_id=%s, session_id=%s", record.ID, record.StudentID, record.SessionID)

	report, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	query, args, err := sqlBuilder.Insert("assessment_results").
		Columns(resultColumns...).
		Values(record.ID, record.StudentID, record.SessionID, string(record.Track),
			record.TotalCount, record.CorrectCount, string(report), record.CompletedAt.UTC()).
		Suffix("ON CONFLICT(session_id) DO NOTHING").
		ToSql()
	if err != nil {
		log.Error("failed to build insert: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to save result: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug("result for session %s already stored", record.SessionID)
	}
	return nil
}

// ListByStudent returns the student's records, newest first. A non-positive
// limit returns all of them.
func (r *resultRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("listing results: student_id=%s, limit=%d", studentID, limit)

	q := sqlBuilder.Select(resultColumns...).
		From("assessment_results").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("completed_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.AssessmentRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		records = append(records, *rec)
	}

	log.Debug("found %d results", len(records))
	return records, rows.Err()
}

// Get returns the record with id, or nil when there is none.
func (r *resultRepository) Get(ctx context.Context, id string) (*models.AssessmentRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("getting result: id=%s", id)

	query, args, err := sqlBuilder.Select(resultColumns...).
		From("assessment_results").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("result not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get result: %v", err)
		return nil, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.AssessmentRecord, error) {
	var rec models.AssessmentRecord
	var report string
	if err := row.Scan(&rec.ID, &rec.StudentID, &rec.SessionID, &rec.Track,
		&rec.TotalCount, &rec.CorrectCount, &report, &rec.CompletedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(report), &rec.Report); err != nil {
		return nil, fmt.Errorf("decode report for result %s: %w", rec.ID, err)
	}
	rec.CompletedAt = rec.CompletedAt.UTC()
	return &rec, nil
}
