// Package guestbook 提供基于 SQLite 的留言板存储。
package guestbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite" // 注册 "sqlite" 驱动
)

// 留言长度限制（按字符计）。
const (
	MaxNameLen    = 64
	MaxMessageLen = 2000
)

// ErrInvalidEntry 留言为空或超出长度限制。
var ErrInvalidEntry = errors.New("guestbook: invalid entry")

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	message    TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
`

// Entry 一条留言。
type Entry struct {
	ID        int64
	Name      string
	Message   string
	CreatedAt time.Time
}

// Store 留言板存储，并发安全。
type Store struct {
	db *sql.DB
}

// Open 打开（必要时创建）数据库并初始化表结构。
//
// dsn 可以是文件路径（可带 ?_pragma=... 参数）、file: URI 或 ":memory:"。
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dir := dataDir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open guestbook db: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		// 每个连接都是独立的内存库
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate guestbook db: %w", err)
	}

	slog.Debug("Guestbook store opened", "dsn", dsn)

	return &Store{db: db}, nil
}

func dataDir(dsn string) string {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return ""
	}
	path, _, _ := strings.Cut(dsn, "?")
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}

	return dir
}

// Close 关闭数据库。
func (s *Store) Close() error {
	return s.db.Close()
}

// Add 新增一条留言。name 与 message 会去除首尾空白。
func (s *Store) Add(ctx context.Context, name, message string) (Entry, error) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if err := validate(name, message); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Name:      name,
		Message:   message,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (name, message, created_at) VALUES (?, ?, ?)`,
		entry.Name, entry.Message, entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	return entry, nil
}

func validate(name, message string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	case message == "":
		return fmt.Errorf("%w: message is required", ErrInvalidEntry)
	case utf8.RuneCountInString(name) > MaxNameLen:
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidEntry, MaxNameLen)
	case utf8.RuneCountInString(message) > MaxMessageLen:
		return fmt.Errorf("%w: message longer than %d characters", ErrInvalidEntry, MaxMessageLen)
	}

	return nil
}

// Count 返回留言总数。
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	return n, nil
}

// Recent 按时间倒序遍历最近的 limit 条留言，limit <= 0 表示不限。
//
// 查询在开始遍历时才执行；调用方提前停止时游标随之关闭。
func (s *Store) Recent(ctx context.Context, limit int) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if limit <= 0 {
			limit = -1
		}
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, name, message, created_at FROM entries ORDER BY created_at DESC, id DESC LIMIT ?`,
			limit,
		)
		if err != nil {
			yield(Entry{}, fmt.Errorf("query entries: %w", err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				e       Entry
				created int64
			)
			if err := rows.Scan(&e.ID, &e.Name, &e.Message, &created); err != nil {
				yield(Entry{}, fmt.Errorf("scan entry: %w", err))
				return
			}
			e.CreatedAt = time.UnixMilli(created).UTC()
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("iterate entries: %w", err))
		}
	}
}
