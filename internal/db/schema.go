package db

// Table names
const (
	TableJobPosting        = "job_posting"
	TableStandardJob       = "standard_job"
	TableStandardJobFamily = "standard_job_family"
	TableDaysToHireStats   = "days_to_hire_stats"
)

// days_to_hire_stats has no unique constraint on (standard_job_id, country_code);
// each run clears the table before inserting.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS standard_job_family (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS standard_job (
    id                     TEXT PRIMARY KEY,
    name                   TEXT NOT NULL,
    standard_job_family_id TEXT NOT NULL REFERENCES standard_job_family (id)
);

CREATE TABLE IF NOT EXISTS job_posting (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    standard_job_id TEXT NOT NULL,
    country_code    TEXT,
    days_to_hire    INTEGER
);

CREATE INDEX IF NOT EXISTS idx_job_posting_job_country
    ON job_posting (standard_job_id, country_code);

CREATE TABLE IF NOT EXISTS days_to_hire_stats (
    id                 SERIAL PRIMARY KEY,
    standard_job_id    TEXT NOT NULL,
    country_code       TEXT,
    avg_days_to_hire   DOUBLE PRECISION NOT NULL,
    min_days_to_hire   DOUBLE PRECISION NOT NULL,
    max_days_to_hire   DOUBLE PRECISION NOT NULL,
    job_postings_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_days_to_hire_stats_job_country
    ON days_to_hire_stats (standard_job_id, country_code);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS standard_job_family (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS standard_job (
    id                     TEXT PRIMARY KEY,
    name                   TEXT NOT NULL,
    standard_job_family_id TEXT NOT NULL REFERENCES standard_job_family (id)
);

CREATE TABLE IF NOT EXISTS job_posting (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    standard_job_id TEXT NOT NULL,
    country_code    TEXT,
    days_to_hire    INTEGER
);

CREATE INDEX IF NOT EXISTS idx_job_posting_job_country
    ON job_posting (standard_job_id, country_code);

CREATE TABLE IF NOT EXISTS days_to_hire_stats (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    standard_job_id    TEXT NOT NULL,
    country_code       TEXT,
    avg_days_to_hire   REAL NOT NULL,
    min_days_to_hire   REAL NOT NULL,
    max_days_to_hire   REAL NOT NULL,
    job_postings_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_days_to_hire_stats_job_country
    ON days_to_hire_stats (standard_job_id, country_code);
`
