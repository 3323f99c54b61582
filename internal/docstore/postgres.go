package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Every logical collection shares one table: the payload lives in a jsonb
// column, the store-managed fields in real columns so ordering and
// timestamp types stay exact.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id         UUID PRIMARY KEY,
	collection TEXT NOT NULL,
	data       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_collection_recency_idx
	ON documents (collection, created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS documents_data_idx
	ON documents USING GIN (data);
`

// PostgresStore persists documents as jsonb rows. Ids are UUID strings.
type PostgresStore struct{ db *sql.DB }

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects, verifies the connection and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing handle without touching the schema.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, ErrUnavailable
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Create(ctx context.Context, collection string, doc Document) (Document, error) {
	payload := doc.Clone()
	delete(payload, FieldID)
	delete(payload, FieldCreatedAt)
	delete(payload, FieldUpdatedAt)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", collection, err)
	}

	id := uuid.New()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, collection, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, collection, data, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", collection, err)
	}
	return s.fetch(ctx, collection, id)
}

func (s *PostgresStore) List(ctx context.Context, collection string, f Filter, limit int64) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	where, args := postgresWhere(f, 2) // $1 is the collection
	query := fmt.Sprintf(`
		SELECT id, data, created_at, updated_at FROM documents
		WHERE collection = $1%s
		ORDER BY created_at DESC, id DESC
		LIMIT %d`, where, limit)

	rows, err := s.db.QueryContext(ctx, query, append([]any{collection}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan, collection, "")
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, collection, uid)
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields Document) (Document, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	patch := fields.Clone()
	delete(patch, FieldID)
	delete(patch, FieldCreatedAt)
	delete(patch, FieldUpdatedAt)

	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", collection, err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = $4
		WHERE collection = $1 AND id = $2`,
		collection, uid, data, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", collection, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return s.fetch(ctx, collection, uid)
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	uid, err := parseUUID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, uid)
	if err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) fetch(ctx context.Context, collection string, id uuid.UUID) (Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE collection = $1 AND id = $2`, collection, id)
	return scanDocument(row.Scan, collection, id.String())
}

func scanDocument(scan func(...any) error, collection, id string) (Document, error) {
	var (
		docID     uuid.UUID
		data      []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := scan(&docID, &data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}

	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	doc[FieldID] = docID.String()
	doc[FieldCreatedAt] = createdAt.UTC()
	doc[FieldUpdatedAt] = updatedAt.UTC()
	return doc, nil
}

// postgresWhere renders filter clauses as AND'ed SQL conditions, with
// placeholders starting at $next. Text matching uses ILIKE on the jsonb
// payload, array membership the ?| overlap operator. Field names come
// from builders in code, never from user input.
func postgresWhere(f Filter, next int) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	for _, c := range f.Clauses() {
		switch c.Kind {
		case KindContains:
			if len(c.Fields) == 0 {
				continue
			}
			parts := make([]string, 0, len(c.Fields))
			for _, field := range c.Fields {
				parts = append(parts, fmt.Sprintf(`data->>'%s' ILIKE $%d`, field, next))
			}
			args = append(args, "%"+escapeLike(c.Needle)+"%")
			next++
			sb.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
		case KindIn:
			sb.WriteString(fmt.Sprintf(` AND data->'%s' ?| $%d`, c.Field, next))
			args = append(args, pq.Array(c.Values))
			next++
		}
	}
	return sb.String(), args
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
