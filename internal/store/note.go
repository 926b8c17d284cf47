package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/notequiz/internal/quiz"
)

var noteColumns = []string{"id", "user_id", "title", "content", "created_at", "updated_at"}

// noteRepo implements NoteRepo.
type noteRepo struct {
	db *sql.DB
	sb *entsql.DialectBuilder
}

func (r *noteRepo) Create(ctx context.Context, note quiz.Note) (quiz.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}

	query, args := r.sb.Insert(tableNotes).
		Columns(noteColumns...).
		Values(note.ID, note.UserID, note.Title, note.Content,
			note.CreatedAt.UnixNano(), note.UpdatedAt.UnixNano()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return quiz.Note{}, persistErr("create note", err)
	}
	return note, nil
}

func (r *noteRepo) Get(ctx context.Context, noteID, userID string) (quiz.Note, error) {
	query, args := r.sb.Select(noteColumns...).
		From(entsql.Table(tableNotes)).
		Where(entsql.And(
			entsql.EQ("id", noteID),
			entsql.EQ("user_id", userID),
		)).
		Query()

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Note{}, ErrNotFound
	}
	if err != nil {
		return quiz.Note{}, persistErr("get note", err)
	}
	return note, nil
}

func (r *noteRepo) List(ctx context.Context, userID string) ([]quiz.Note, error) {
	query, args := r.sb.Select(noteColumns...).
		From(entsql.Table(tableNotes)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("updated_at"), entsql.Desc("rowid")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list notes", err)
	}
	defer rows.Close()

	notes := []quiz.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, persistErr("list notes", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list notes", err)
	}
	return notes, nil
}

func (r *noteRepo) Update(ctx context.Context, note quiz.Note) (quiz.Note, error) {
	existing, err := r.Get(ctx, note.ID, note.UserID)
	if err != nil {
		return quiz.Note{}, err
	}

	existing.Title = note.Title
	existing.Content = note.Content
	existing.UpdatedAt = time.Now()

	query, args := r.sb.Update(tableNotes).
		Set("title", existing.Title).
		Set("content", existing.Content).
		Set("updated_at", existing.UpdatedAt.UnixNano()).
		Where(entsql.And(
			entsql.EQ("id", existing.ID),
			entsql.EQ("user_id", existing.UserID),
		)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return quiz.Note{}, persistErr("update note", err)
	}
	return existing, nil
}

// Delete removes the attempts, quizzes and the note in one transaction so the
// cascade holds even on connections opened without foreign key enforcement.
func (r *noteRepo) Delete(ctx context.Context, noteID, userID string) error {
	if _, err := r.Get(ctx, noteID, userID); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("delete note", err)
	}
	defer tx.Rollback()

	quizIDs := r.sb.Select("id").
		From(entsql.Table(tableQuizzes)).
		Where(entsql.EQ("note_id", noteID))

	stmts := []*entsql.DeleteBuilder{
		r.sb.Delete(tableAttempts).Where(entsql.In("quiz_id", quizIDs)),
		r.sb.Delete(tableQuizzes).Where(entsql.EQ("note_id", noteID)),
		r.sb.Delete(tableNotes).Where(entsql.And(
			entsql.EQ("id", noteID),
			entsql.EQ("user_id", userID),
		)),
	}
	for _, d := range stmts {
		query, args := d.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return persistErr("delete note", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistErr("delete note", fmt.Errorf("commit: %w", err))
	}
	return nil
}

func scanNote(s scanner) (quiz.Note, error) {
	var (
		n                quiz.Note
		created, updated int64
	)
	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &created, &updated); err != nil {
		return quiz.Note{}, err
	}
	n.CreatedAt = time.Unix(0, created)
	n.UpdatedAt = time.Unix(0, updated)
	return n, nil
}
