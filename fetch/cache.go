/*
 * cache.go, part of molgrid.
 *
 *
 * Copyright 2024 rmeraaatacademicosdotutadotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package fetch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `CREATE TABLE IF NOT EXISTS files (
	url     TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	fetched INTEGER NOT NULL
)`

// Cache keeps the text of remote files in a sqlite database.
type Cache struct {
	db     *sql.DB
	maxAge time.Duration
}

// OpenCache opens, or creates, the cache in the sqlite file path. Use
// ":memory:" for a cache that lasts as long as the process. Entries older
// than maxAge are fetched again, 0 means they never expire.
func OpenCache(path string, maxAge time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fetch: failed to open cache: %w", err)
	}
	//sqlite has a single writer, and :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	for _, q := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL", cacheSchema} {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("fetch: failed to initialize cache: %w", err)
		}
	}
	return &Cache{db: db, maxAge: maxAge}, nil
}

// Get returns the cached text for url. The second value is false if there is
// no entry, or if it has expired.
func (C *Cache) Get(ctx context.Context, url string) (string, bool, error) {
	var text string
	var fetched int64
	err := C.db.QueryRowContext(ctx, "SELECT content, fetched FROM files WHERE url = ?", url).Scan(&text, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fetch: cache lookup: %w", err)
	}
	if C.maxAge > 0 && time.Since(time.Unix(fetched, 0)) > C.maxAge {
		return "", false, nil
	}
	return text, true, nil
}

// Put stores text as the content of url.
func (C *Cache) Put(ctx context.Context, url, text string) error {
	_, err := C.db.ExecContext(ctx,
		"INSERT INTO files (url, content, fetched) VALUES (?, ?, ?) ON CONFLICT(url) DO UPDATE SET content = excluded.content, fetched = excluded.fetched",
		url, text, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("fetch: cache store: %w", err)
	}
	return nil
}

// Len returns the number of entries in the cache.
func (C *Cache) Len(ctx context.Context) (int, error) {
	var n int
	err := C.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&n)
	return n, err
}

// Close closes the database.
func (C *Cache) Close() error {
	return C.db.Close()
}
