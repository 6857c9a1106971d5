package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
	"github.com/vytor/prepdash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var questionColumns = []string{
	"id", "track", "prompt", "options", "correct_option", "explanation",
	"subject", "topic", "difficulty", "created_at",
}

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) QuestionsByTrack(ctx context.Context, track models.Track) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("loading question pool: track=%s", track)

	query, args, err := sqlBuilder.Select(questionColumns...).
		From("questions").
		Where(squirrel.Eq{"track": string(track)}).
		OrderBy("id").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var options string
		if err := rows.Scan(&q.ID, &q.Track, &q.Prompt, &options, &q.CorrectOption, &q.Explanation,
			&q.Subject, &q.Topic, &q.Difficulty, &q.CreatedAt); err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			log.Error("corrupt options for question %s: %v", q.ID, err)
			return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("found %d questions for track=%s", len(questions), track)
	return questions, nil
}

// InsertBatch stores questions in one transaction. Questions whose id already
// exists are skipped; the count of newly inserted rows is returned.
func (r *questionRepository) InsertBatch(ctx context.Context, questions []models.Question) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("batch inserting %d questions", len(questions))

	if len(questions) == 0 {
		return 0, nil
	}

	inserted := 0
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO questions (id, track, prompt, options, correct_option, explanation, subject, topic, difficulty)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, q := range questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			res, err := stmt.ExecContext(ctx, q.ID, string(q.Track), q.Prompt, string(options), q.CorrectOption,
				q.Explanation, q.Subject, q.Topic, string(q.Difficulty))
			if err != nil {
				log.Error("failed to insert question id=%s: %v", q.ID, err)
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug("batch insert completed, %d new questions inserted", inserted)
	return inserted, nil
}

func (r *questionRepository) CountByTrack(ctx context.Context, track models.Track) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	query, args, err := sqlBuilder.Select("COUNT(*)").
		From("questions").
		Where(squirrel.Eq{"track": string(track)}).
		ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count questions: %v", err)
		return 0, err
	}
	log.Debug("question count: track=%s, count=%d", track, count)
	return count, nil
}
