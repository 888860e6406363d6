// Package sqlite reads question banks from a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // driver: sqlite
)

// Schema creates the bank tables. Options are stored as a JSON array.
const Schema = `
CREATE TABLE IF NOT EXISTS chapters (
  slug     TEXT PRIMARY KEY,
  title    TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS questions (
  chapter_slug TEXT    NOT NULL REFERENCES chapters(slug) ON DELETE CASCADE,
  position     INTEGER NOT NULL,
  prompt       TEXT    NOT NULL,
  options      TEXT    NOT NULL,
  answer_index INTEGER NOT NULL,
  explanation  TEXT,
  citation     TEXT,
  PRIMARY KEY (chapter_slug, position)
);

CREATE TABLE IF NOT EXISTS legacy_blocks (
  chapter_slug TEXT    NOT NULL REFERENCES chapters(slug) ON DELETE CASCADE,
  position     INTEGER NOT NULL,
  block        TEXT    NOT NULL,
  PRIMARY KEY (chapter_slug, position)
);
`

// Open opens the bank file at path read-only and checks that it is reachable.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open bank %s: %w", path, err)
	}
	return db, nil
}
