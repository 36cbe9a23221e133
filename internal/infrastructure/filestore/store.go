// Package filestore keeps evaluation and translation records in a local
// SQLite database. Each collection is one JSON payload that is read and
// replaced whole; concurrent writers are last-write-wins.
package filestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	_ "modernc.org/sqlite"
)

const (
	evaluationCollection  = "evaluation_files"
	translationCollection = "translation_files"
)

type Store struct {
	db *sql.DB
	mu sync.Mutex

	evaluations  collection[domain.EvaluationFile]
	translations collection[domain.TranslationFile]
}

// Open creates the database file and its parent directory when missing.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "./data/collections.db"
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create collection store dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open collection store: %w", err)
	}
	// A single connection keeps :memory: databases shared and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init collection store: %w", err)
	}

	s := &Store{db: db}
	s.evaluations = collection[domain.EvaluationFile]{
		store: s,
		name:  evaluationCollection,
		id:    func(f domain.EvaluationFile) string { return f.ID },
		at:    func(f domain.EvaluationFile) time.Time { return f.CreatedAt },
	}
	s.translations = collection[domain.TranslationFile]{
		store: s,
		name:  translationCollection,
		id:    func(f domain.TranslationFile) string { return f.ID },
		at:    func(f domain.TranslationFile) time.Time { return f.CreatedAt },
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) SaveEvaluationFile(ctx context.Context, f *domain.EvaluationFile) error {
	return s.evaluations.put(ctx, *f)
}

func (s *Store) GetEvaluationFile(ctx context.Context, id string) (*domain.EvaluationFile, error) {
	return s.evaluations.get(ctx, id)
}

func (s *Store) ListEvaluationFiles(ctx context.Context) ([]domain.EvaluationFile, error) {
	return s.evaluations.list(ctx)
}

func (s *Store) SaveTranslationFile(ctx context.Context, f *domain.TranslationFile) error {
	return s.translations.put(ctx, *f)
}

func (s *Store) GetTranslationFile(ctx context.Context, id string) (*domain.TranslationFile, error) {
	return s.translations.get(ctx, id)
}

func (s *Store) ListTranslationFiles(ctx context.Context) ([]domain.TranslationFile, error) {
	return s.translations.list(ctx)
}

type collection[T any] struct {
	store *Store
	name  string
	id    func(T) string
	at    func(T) time.Time
}

func (c collection[T]) put(ctx context.Context, item T) error {
	if c.id(item) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "save "+c.name, fmt.Errorf("empty id"))
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	items, err := c.read(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if c.id(items[i]) == c.id(item) {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return c.write(ctx, items)
}

func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	items, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if c.id(items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("get %s: %w: id=%s", c.name, domain.ErrFileNotFound, id)
}

// list returns records oldest first.
func (c collection[T]) list(ctx context.Context) ([]T, error) {
	items, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return c.at(items[i]).Before(c.at(items[j]))
	})
	return items, nil
}

func (c collection[T]) read(ctx context.Context) ([]T, error) {
	var payload string
	err := c.store.db.QueryRowContext(ctx, `SELECT payload FROM collections WHERE name = ?`, c.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.name, err)
	}
	items := make([]T, 0)
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return items, nil
}

func (c collection[T]) write(ctx context.Context, items []T) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	_, err = c.store.db.ExecContext(ctx, `
INSERT INTO collections (name, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
`, c.name, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}
