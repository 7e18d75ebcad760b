package store

// schemaVersion is the current DDL version.
const schemaVersion = 1

var schemaDDL = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS suites (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario   TEXT NOT NULL,
	planner    TEXT NOT NULL,
	trials     INTEGER NOT NULL DEFAULT 0,
	accuracy   REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trials (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	suite_id    INTEGER NOT NULL REFERENCES suites(id),
	seq         INTEGER NOT NULL,
	seed        INTEGER NOT NULL,
	variants    TEXT NOT NULL,
	plan_json   TEXT NOT NULL,
	skips       INTEGER NOT NULL DEFAULT 0,
	pass        INTEGER NOT NULL DEFAULT 0,
	violations  INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	UNIQUE(suite_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_trials_suite ON trials(suite_id);
`
