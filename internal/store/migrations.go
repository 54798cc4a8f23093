package store

import "fmt"

// schema holds persisted popup state. Values are stored as text together with
// the kind they were written as.
const schema = `
CREATE TABLE IF NOT EXISTS popup_state (
    scope TEXT NOT NULL,
    key TEXT NOT NULL,
    kind TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (scope, key)
);

CREATE INDEX IF NOT EXISTS idx_popup_state_scope ON popup_state(scope);
`

// Migrate creates the schema when missing.
func (s *Store) Migrate() error {
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
