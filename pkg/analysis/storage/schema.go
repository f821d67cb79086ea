package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// SQLiteSchema creates the analyses table and its indexes.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id TEXT NOT NULL DEFAULT '',
    job_description TEXT NOT NULL,
    content_hash TEXT NOT NULL DEFAULT '',
    risk_score INTEGER NOT NULL,
    risk_level VARCHAR(10) NOT NULL,
    reasons TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_risk_level ON analyses(risk_level);
CREATE INDEX IF NOT EXISTS idx_analyses_content_hash ON analyses(content_hash);
`

// SQLiteInsertSchemaVersion records the schema version once.
const SQLiteInsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, ?)
ON CONFLICT(version) DO NOTHING;
`

// MySQLSchema holds the MySQL DDL, one statement per entry since the driver
// does not run multi-statement strings by default.
var MySQLSchema = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
    id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    request_id VARCHAR(64) NOT NULL DEFAULT '',
    job_description TEXT COLLATE utf8mb4_general_ci NOT NULL,
    content_hash CHAR(64) NOT NULL DEFAULT '',
    risk_score INT NOT NULL,
    risk_level VARCHAR(10) NOT NULL,
    reasons JSON NOT NULL,
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    INDEX idx_analyses_created_at (created_at),
    INDEX idx_analyses_risk_level (risk_level),
    INDEX idx_analyses_content_hash (content_hash)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS schema_version (
    version INT NOT NULL PRIMARY KEY,
    applied_at DATETIME(6) NOT NULL
) ENGINE=InnoDB`,
}

// MySQLInsertSchemaVersion records the schema version once.
const MySQLInsertSchemaVersion = `
INSERT IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)
`

// GetSchemaVersion retrieves the current schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1
`
