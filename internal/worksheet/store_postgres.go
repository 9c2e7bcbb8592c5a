package worksheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store. Questions are kept as one JSONB
// document per worksheet so their order survives without a position column.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed worksheet store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, w Worksheet) (Worksheet, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	questions, err := encodeQuestions(w.Questions)
	if err != nil {
		return Worksheet{}, err
	}

	w = w.Clone()
	w.ID = uuid.NewString()
	err = s.pool.QueryRow(ctx,
		`INSERT INTO worksheets (id, title, instructions, questions)
		 VALUES ($1::uuid, $2, $3, $4::jsonb)
		 RETURNING created_at, updated_at`,
		w.ID,
		w.Title,
		w.Instructions,
		questions,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return Worksheet{}, fmt.Errorf("create worksheet: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Worksheet, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return Worksheet{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var w Worksheet
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, title, instructions, questions, created_at, updated_at
		 FROM worksheets
		 WHERE id = $1::uuid`,
		id,
	).Scan(&w.ID, &w.Title, &w.Instructions, &raw, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Worksheet{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Worksheet{}, fmt.Errorf("get worksheet: %w", err)
	}
	if err := json.Unmarshal(raw, &w.Questions); err != nil {
		return Worksheet{}, fmt.Errorf("decode questions: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) Save(ctx context.Context, w Worksheet) (Worksheet, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	questions, err := encodeQuestions(w.Questions)
	if err != nil {
		return Worksheet{}, err
	}

	w = w.Clone()
	err = s.pool.QueryRow(ctx,
		`UPDATE worksheets
		 SET title = $2, instructions = $3, questions = $4::jsonb, updated_at = NOW()
		 WHERE id = $1::uuid
		 RETURNING created_at, updated_at`,
		w.ID,
		w.Title,
		w.Instructions,
		questions,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Worksheet{}, fmt.Errorf("%w: %s", ErrNotFound, w.ID)
		}
		return Worksheet{}, fmt.Errorf("save worksheet: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx, `DELETE FROM worksheets WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("delete worksheet: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Worksheet, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, title, instructions, questions, created_at, updated_at
		 FROM worksheets
		 ORDER BY updated_at DESC, id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query worksheets: %w", err)
	}
	defer rows.Close()

	var out []Worksheet
	for rows.Next() {
		var w Worksheet
		var raw []byte
		if err := rows.Scan(&w.ID, &w.Title, &w.Instructions, &raw, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan worksheet: %w", err)
		}
		if err := json.Unmarshal(raw, &w.Questions); err != nil {
			return nil, fmt.Errorf("decode questions for %s: %w", w.ID, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate worksheets: %w", err)
	}
	return out, nil
}

func encodeQuestions(qs []Question) (string, error) {
	if qs == nil {
		qs = []Question{}
	}
	raw, err := json.Marshal(qs)
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}
	return string(raw), nil
}
