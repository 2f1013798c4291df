package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

const articlesTable = "articles"

// Dialect captures the differences between supported databases.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQLStore persists generated articles through database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
	newID   func() string
}

var _ ports.ArticleStore = (*SQLStore)(nil)

// NewSQLStore wires a sql.DB implementation.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == DialectPostgres {
		placeholder = sq.Dollar
	}
	return &SQLStore{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		newID:   uuid.NewString,
	}
}

// Open connects to the configured driver and applies connection settings.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	dialect, err := parseDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// A single connection keeps in-memory databases and writes consistent.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return NewSQLStore(db, dialect), nil
}

// Close releases the underlying pool.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates the articles table when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("database is not configured")
	}
	stmt := schemaPostgres
	if s.dialect == DialectSQLite {
		stmt = schemaSQLite
	}
	for _, q := range strings.Split(stmt, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// LatestFutureScheduled returns the greatest scheduled_for strictly after now.
func (s *SQLStore) LatestFutureScheduled(ctx context.Context, now time.Time) (*time.Time, error) {
	if s.db == nil {
		return nil, nil
	}

	query, args, err := s.builder.
		Select("scheduled_for").
		From(articlesTable).
		Where(sq.Gt{"scheduled_for": now.UTC()}).
		OrderBy("scheduled_for DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest query: %w", err)
	}

	var latest time.Time
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&latest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest scheduled: %w", err)
	}

	return &latest, nil
}

// Insert writes one article row and returns its id.
func (s *SQLStore) Insert(ctx context.Context, article domain.GeneratedArticle) (string, error) {
	if s.db == nil {
		return "", errors.New("database is not configured")
	}

	id := article.ID
	if id == "" {
		id = s.newID()
	}

	var published any
	if article.PublishedDate != nil {
		published = article.PublishedDate.UTC()
	}

	query, args, err := s.builder.
		Insert(articlesTable).
		Columns("id", "title", "summary", "content", "tldr", "image", "author_id",
			"created_at", "updated_at", "published_date", "scheduled_for").
		Values(id, article.Title, article.Summary, article.Content, article.TLDR, article.Image, article.AuthorID,
			article.CreatedAt.UTC(), article.UpdatedAt.UTC(), published, article.ScheduledFor.UTC()).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert article: %w", err)
	}

	return id, nil
}

// Get loads an article by id.
func (s *SQLStore) Get(ctx context.Context, id string) (domain.GeneratedArticle, error) {
	query, args, err := s.builder.
		Select("id", "title", "summary", "content", "tldr", "image", "author_id",
			"created_at", "updated_at", "published_date", "scheduled_for").
		From(articlesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.GeneratedArticle{}, fmt.Errorf("build get: %w", err)
	}

	var (
		a         domain.GeneratedArticle
		published sql.NullTime
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.Title, &a.Summary, &a.Content, &a.TLDR, &a.Image, &a.AuthorID,
		&a.CreatedAt, &a.UpdatedAt, &published, &a.ScheduledFor,
	)
	if err != nil {
		return domain.GeneratedArticle{}, fmt.Errorf("get article %s: %w", id, err)
	}
	if published.Valid {
		t := published.Time
		a.PublishedDate = &t
	}
	return a, nil
}

func parseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	case "sqlite", "sqlite3", "":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("database driver %s is not supported", driver)
	}
}
