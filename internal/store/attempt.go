package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/notequiz/internal/quiz"
)

var attemptColumns = []string{"id", "quiz_id", "user_id", "answers", "score", "created_at"}

// attemptRepo implements AttemptRepo.
type attemptRepo struct {
	db *sql.DB
	sb *entsql.DialectBuilder
}

func (r *attemptRepo) Save(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return quiz.Attempt{}, persistErr("save attempt", fmt.Errorf("marshal answers: %w", err))
	}

	query, args := r.sb.Insert(tableAttempts).
		Columns(attemptColumns...).
		Values(a.ID, a.QuizID, a.UserID, string(answers), a.Score, a.CreatedAt.UnixNano()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return quiz.Attempt{}, persistErr("save attempt", err)
	}
	return a, nil
}

func (r *attemptRepo) LatestByQuiz(ctx context.Context, quizID, userID string) (quiz.Attempt, error) {
	query, args := r.sb.Select(attemptColumns...).
		From(entsql.Table(tableAttempts)).
		Where(entsql.And(
			entsql.EQ("quiz_id", quizID),
			entsql.EQ("user_id", userID),
		)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid")).
		Limit(1).
		Query()

	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Attempt{}, ErrNotFound
	}
	if err != nil {
		return quiz.Attempt{}, persistErr("latest attempt", err)
	}
	return a, nil
}

func (r *attemptRepo) ListByNote(ctx context.Context, noteID, userID string) ([]quiz.Attempt, error) {
	a := entsql.Table(tableAttempts).As("a")
	q := entsql.Table(tableQuizzes).As("q")

	query, args := r.sb.Select(
		a.C("id"), a.C("quiz_id"), a.C("user_id"),
		a.C("answers"), a.C("score"), a.C("created_at"),
	).
		From(a).
		Join(q).On(a.C("quiz_id"), q.C("id")).
		Where(entsql.And(
			entsql.EQ(q.C("note_id"), noteID),
			entsql.EQ(a.C("user_id"), userID),
		)).
		OrderBy(entsql.Desc(a.C("created_at"))).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list attempts", err)
	}
	defer rows.Close()

	attempts := []quiz.Attempt{}
	for rows.Next() {
		at, err := scanAttempt(rows)
		if err != nil {
			return nil, persistErr("list attempts", err)
		}
		attempts = append(attempts, at)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list attempts", err)
	}
	return attempts, nil
}

func scanAttempt(s scanner) (quiz.Attempt, error) {
	var (
		a       quiz.Attempt
		answers string
		created int64
	)
	if err := s.Scan(&a.ID, &a.QuizID, &a.UserID, &answers, &a.Score, &created); err != nil {
		return quiz.Attempt{}, err
	}
	if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
		return quiz.Attempt{}, fmt.Errorf("decode answers of attempt %s: %w", a.ID, err)
	}
	a.CreatedAt = time.Unix(0, created)
	return a, nil
}
