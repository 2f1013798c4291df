package storage

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS articles (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    summary        TEXT NOT NULL DEFAULT '',
    content        TEXT NOT NULL,
    tldr           TEXT NOT NULL,
    image          TEXT NOT NULL,
    author_id      TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL,
    published_date TIMESTAMPTZ NULL,
    scheduled_for  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS articles_scheduled_for_idx ON articles (scheduled_for)
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS articles (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    summary        TEXT NOT NULL DEFAULT '',
    content        TEXT NOT NULL,
    tldr           TEXT NOT NULL,
    image          TEXT NOT NULL,
    author_id      TEXT NOT NULL,
    created_at     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL,
    published_date DATETIME NULL,
    scheduled_for  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS articles_scheduled_for_idx ON articles (scheduled_for)
`
