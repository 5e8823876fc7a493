package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements aquacms.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) aquacms.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) aquacms.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("content already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return aquacms.ErrContentNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const contentColumns = `
	id, content_type, title, body, status, published_at, author,
	image_url, image_key, category, client, url, created_at, updated_at`

func scanContentItem(row pgx.Row) (*aquacms.ContentItem, error) {
	var item aquacms.ContentItem
	err := row.Scan(
		&item.ID, &item.Type, &item.Title, &item.Body, &item.Status,
		&item.PublishedAt, &item.Author, &item.ImageURL, &item.ImageKey,
		&item.Category, &item.Client, &item.URL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreateContent(ctx context.Context, item *aquacms.ContentItem) error {
	query := `
		INSERT INTO content_items (
			id, content_type, title, body, status, published_at, author,
			image_url, image_key, category, client, url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Type, item.Title, item.Body, item.Status,
		item.PublishedAt, item.Author, item.ImageURL, item.ImageKey,
		item.Category, item.Client, item.URL, item.CreatedAt, item.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*aquacms.ContentItem, error) {
	query := `SELECT` + contentColumns + `
	FROM content_items WHERE id = $1`

	item, err := scanContentItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, aquacms.ErrContentNotFound
		}
		return nil, err
	}

	return item, nil
}

func (r *Repository) UpdateContent(ctx context.Context, item *aquacms.ContentItem) error {
	query := `
		UPDATE content_items SET
			title = $2, body = $3, status = $4, published_at = $5,
			image_url = $6, image_key = $7, category = $8, client = $9,
			url = $10, updated_at = $11
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		item.ID, item.Title, item.Body, item.Status, item.PublishedAt,
		item.ImageURL, item.ImageKey, item.Category, item.Client,
		item.URL, item.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return aquacms.ErrContentNotFound
	}

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	// Hard delete, no tombstone
	tag, err := r.db.Exec(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return aquacms.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListByStatus(ctx context.Context, contentType aquacms.ContentType, status aquacms.Status, limit int) ([]*aquacms.ContentItem, error) {
	query := `SELECT` + contentColumns + `
	FROM content_items
	WHERE content_type = $1 AND status = $2
	ORDER BY published_at DESC NULLS LAST, created_at DESC, id`

	args := []interface{}{contentType, status}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	return r.queryContentItems(ctx, "list by status", query, args...)
}

func (r *Repository) ListContent(ctx context.Context, contentType aquacms.ContentType, filter aquacms.StatusFilter, limit int) ([]*aquacms.ContentItem, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT` + contentColumns + `
	FROM content_items
	WHERE content_type = $1`)

	args := []interface{}{contentType}
	switch filter {
	case aquacms.StatusFilterDraft:
		args = append(args, aquacms.StatusDraft)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	case aquacms.StatusFilterPublished:
		args = append(args, aquacms.StatusPublished)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}

	sb.WriteString(" ORDER BY updated_at DESC, created_at DESC, id")
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return r.queryContentItems(ctx, "list content", sb.String(), args...)
}

func (r *Repository) queryContentItems(ctx context.Context, operation, query string, args ...interface{}) ([]*aquacms.ContentItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError(operation, err)
	}
	defer rows.Close()

	var items []*aquacms.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError(operation, err)
	}

	return items, nil
}
