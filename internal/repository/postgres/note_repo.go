package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ftcaleb/marketing-kasiverse/internal/models"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
)

const noteCols = "id, user_id, title, description, location, price, category, created_at"

type NoteRepo struct{ db *pgxpool.Pool }

func NewNoteRepo(db *pgxpool.Pool) repository.NoteRepository { return &NoteRepo{db: db} }

func (r *NoteRepo) List(ctx context.Context) ([]models.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+noteCols+`
		FROM notes
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var n models.Note
		if err := scanNote(rows, &n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NoteRepo) Get(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	err := scanNote(r.db.QueryRow(ctx, `
		SELECT `+noteCols+`
		FROM notes WHERE id=$1`, id), &n)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &n, nil
}

func (r *NoteRepo) Create(ctx context.Context, in *models.Note) (*models.Note, error) {
	var n models.Note
	err := scanNote(r.db.QueryRow(ctx, `
		INSERT INTO notes (user_id, title, description, location, price, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+noteCols,
		in.UserID, in.Title, in.Description, in.Location, in.Price, in.Category), &n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) Update(ctx context.Context, id string, patch repository.NotePatch) (*models.Note, error) {
	if patch.Empty() {
		return r.Get(ctx, id)
	}

	args := []any{}
	sets := []string{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+"=$"+strconv.Itoa(len(args)))
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.PriceSet {
		set("price", patch.Price)
	}
	if patch.CategorySet {
		set("category", patch.Category)
	}
	args = append(args, id)

	var n models.Note
	err := scanNote(r.db.QueryRow(ctx, `
		UPDATE notes SET `+strings.Join(sets, ", ")+`
		WHERE id=$`+strconv.Itoa(len(args))+`
		RETURNING `+noteCols, args...), &n)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &n, nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id=$1`, id)
	if err != nil {
		return notFoundOr(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNoteNotFound
	}
	return nil
}

func scanNote(row pgx.Row, n *models.Note) error {
	return row.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Location,
		&n.Price, &n.Category, &n.CreatedAt)
}

// notFoundOr maps "no such row" shapes onto the repository sentinel. A
// malformed uuid (22P02) reads the same as a missing row, matching the
// hosted provider's behavior for ids that cannot exist.
func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNoteNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return repository.ErrNoteNotFound
	}
	return err
}
