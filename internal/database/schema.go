package database

const schema = `
CREATE TABLE movies (
	imdb_id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT 'N/A',
	poster TEXT NOT NULL DEFAULT 'N/A',
	year TEXT NOT NULL DEFAULT 'N/A',
	released TEXT NOT NULL DEFAULT 'N/A',
	genre TEXT NOT NULL DEFAULT 'N/A',
	plot TEXT NOT NULL DEFAULT 'N/A',
	actors TEXT NOT NULL DEFAULT 'N/A',
	director TEXT NOT NULL DEFAULT 'N/A',
	runtime TEXT NOT NULL DEFAULT 'N/A',
	rating TEXT NOT NULL DEFAULT 'N/A',
	cached_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_movies_title ON movies(title);
CREATE INDEX idx_movies_cached_at ON movies(cached_at);
`

// migrations contains incremental schema changes
// Each migration is applied in order based on the current user_version
// migrations[0] is empty because version 0 uses the base schema
var migrations = []string{
	"",
}
