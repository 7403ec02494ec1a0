package database

const storageSchema = `
-- Origin-local key/value items shared by the cache and the search history
CREATE TABLE storage (
	item_key TEXT PRIMARY KEY,
	item_value BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_storage_updated_at ON storage(updated_at);
`

// storageMigrations contains incremental schema changes, applied in order
// based on the current user_version. Index 0 is the base schema.
var storageMigrations = []string{
	"",
}
