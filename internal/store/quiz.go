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

var quizColumns = []string{"id", "note_id", "user_id", "questions", "created_at"}

// quizRepo implements QuizRepo.
type quizRepo struct {
	db *sql.DB
	sb *entsql.DialectBuilder
}

func (r *quizRepo) Save(ctx context.Context, rec quiz.Record) (quiz.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	questions, err := json.Marshal(rec.Questions)
	if err != nil {
		return quiz.Record{}, persistErr("save quiz", fmt.Errorf("marshal questions: %w", err))
	}

	query, args := r.sb.Insert(tableQuizzes).
		Columns(quizColumns...).
		Values(rec.ID, rec.NoteID, rec.UserID, string(questions), rec.CreatedAt.UnixNano()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return quiz.Record{}, persistErr("save quiz", err)
	}

	return rec, nil
}

func (r *quizRepo) FindByNoteAndUser(ctx context.Context, noteID, userID string) ([]quiz.Record, error) {
	query, args := r.sb.Select(quizColumns...).
		From(entsql.Table(tableQuizzes)).
		Where(entsql.And(
			entsql.EQ("note_id", noteID),
			entsql.EQ("user_id", userID),
		)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list quizzes", err)
	}
	defer rows.Close()

	records := []quiz.Record{}
	for rows.Next() {
		rec, err := scanQuiz(rows)
		if err != nil {
			return nil, persistErr("list quizzes", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list quizzes", err)
	}
	return records, nil
}

func (r *quizRepo) FindByID(ctx context.Context, quizID, userID string) (quiz.Record, error) {
	query, args := r.sb.Select(quizColumns...).
		From(entsql.Table(tableQuizzes)).
		Where(entsql.And(
			entsql.EQ("id", quizID),
			entsql.EQ("user_id", userID),
		)).
		Query()

	rec, err := scanQuiz(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Record{}, ErrNotFound
	}
	if err != nil {
		return quiz.Record{}, persistErr("find quiz", err)
	}
	return rec, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuiz(s scanner) (quiz.Record, error) {
	var (
		rec       quiz.Record
		questions string
		created   int64
	)
	if err := s.Scan(&rec.ID, &rec.NoteID, &rec.UserID, &questions, &created); err != nil {
		return quiz.Record{}, err
	}
	if err := json.Unmarshal([]byte(questions), &rec.Questions); err != nil {
		return quiz.Record{}, fmt.Errorf("decode questions of quiz %s: %w", rec.ID, err)
	}
	rec.CreatedAt = time.Unix(0, created)
	return rec, nil
}
