package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements simplelessons.RecordStore on PostgreSQL, holding each
// record as a JSONB document in a single table:
//
//	CREATE TABLE documents (
//	    collection text NOT NULL,
//	    key        text NOT NULL,
//	    doc        jsonb NOT NULL,
//	    PRIMARY KEY (collection, key)
//	);
type Store struct {
	db DBTX
}

// New creates a new PostgreSQL record store
func New(db DBTX) *Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL record store with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

func (s *Store) GetByID(ctx context.Context, collection, key string) (*simplelessons.Record, error) {
	query := `SELECT doc FROM documents WHERE collection = $1 AND key = $2`

	var raw []byte
	err := s.db.QueryRow(ctx, query, collection, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplelessons.ErrRecordNotFound
		}
		return nil, s.wrapError("get", err)
	}

	doc, err := decodeDoc(raw)
	if err != nil {
		return nil, err
	}
	return &simplelessons.Record{Key: key, Doc: doc}, nil
}

func (s *Store) Put(ctx context.Context, collection, key string, doc simplelessons.Document) (string, error) {
	if key == "" {
		key = uuid.NewString()
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, key, doc) VALUES ($1, $2, $3)
		ON CONFLICT (collection, key) DO UPDATE SET doc = EXCLUDED.doc`

	if _, err := s.db.Exec(ctx, query, collection, key, raw); err != nil {
		return "", s.wrapError("put", err)
	}
	return key, nil
}

func (s *Store) Patch(ctx context.Context, collection, key string, patch simplelessons.Document) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	// Top-level merge via the jsonb concatenation operator.
	query := `UPDATE documents SET doc = doc || $3 WHERE collection = $1 AND key = $2`

	tag, err := s.db.Exec(ctx, query, collection, key, raw)
	if err != nil {
		return s.wrapError("patch", err)
	}
	if tag.RowsAffected() == 0 {
		return simplelessons.ErrRecordNotFound
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, key string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND key = $2`

	tag, err := s.db.Exec(ctx, query, collection, key)
	if err != nil {
		return s.wrapError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return simplelessons.ErrRecordNotFound
	}
	return nil
}

func (s *Store) QueryByField(ctx context.Context, collection, field string, value any, opts ...simplelessons.QueryOption) ([]*simplelessons.Record, error) {
	var options simplelessons.QueryOptions
	for _, opt := range opts {
		opt(&options)
	}

	query := `SELECT key, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3 ORDER BY key`
	args := []interface{}{collection, field, fieldText(value)}
	if options.OrderBy != "" {
		direction := "ASC"
		if options.Descending {
			direction = "DESC"
		}
		query = fmt.Sprintf(
			`SELECT key, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3 ORDER BY doc->>$4 %s NULLS LAST, key`,
			direction)
		args = append(args, options.OrderBy)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, s.wrapError("query", err)
	}
	defer rows.Close()

	var result []*simplelessons.Record
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, s.wrapError("query", err)
		}
		doc, err := decodeDoc(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, &simplelessons.Record{Key: key, Doc: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapError("query", err)
	}
	return result, nil
}

func (s *Store) IncrementField(ctx context.Context, collection, key, field string, delta int64) error {
	// Single UPDATE so concurrent increments serialize at the row; a missing
	// field counts from zero.
	query := `
		UPDATE documents
		SET doc = jsonb_set(doc, ARRAY[$3], to_jsonb(COALESCE((doc->>$3)::bigint, 0) + $4), true)
		WHERE collection = $1 AND key = $2`

	tag, err := s.db.Exec(ctx, query, collection, key, field, delta)
	if err != nil {
		return s.wrapError("increment", err)
	}
	if tag.RowsAffected() == 0 {
		return simplelessons.ErrRecordNotFound
	}
	return nil
}

// wrapError maps driver errors to something callers can act on.
func (s *Store) wrapError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("documents table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func decodeDoc(raw []byte) (simplelessons.Document, error) {
	var doc simplelessons.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// fieldText renders a match value the way doc->> renders the stored field.
func fieldText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
