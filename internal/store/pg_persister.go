package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	loadStateQuery = `SELECT state FROM session_states WHERE session_id = $1`
	saveStateQuery = `
INSERT INTO session_states (session_id, state, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (session_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`
)

// PgPersister implements Persister on a session_states table with one JSONB document per session.
type PgPersister struct {
	db *pgxpool.Pool
}

// NewPgPersister creates a new instance of Persister using a PostgreSQL connection pool.
func NewPgPersister(dbp *pgxpool.Pool) *PgPersister {
	return &PgPersister{db: dbp}
}

func (p *PgPersister) Load(ctx context.Context, sessionID string) (PersistedState, error) {
	var raw []byte
	if err := p.db.QueryRow(ctx, loadStateQuery, sessionID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PersistedState{}, commerceerrors.ErrStateNotFound
		}
		return PersistedState{}, fmt.Errorf("%w: %v", commerceerrors.ErrLoadState, err)
	}
	var st PersistedState
	if err := json.Unmarshal(raw, &st); err != nil {
		return PersistedState{}, fmt.Errorf("%w: %v", commerceerrors.ErrLoadState, err)
	}
	return st, nil
}

func (p *PgPersister) Save(ctx context.Context, sessionID string, state PersistedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", commerceerrors.ErrSaveState, err)
	}
	if _, err := p.db.Exec(ctx, saveStateQuery, sessionID, raw); err != nil {
		return fmt.Errorf("%w: %v", commerceerrors.ErrSaveState, err)
	}
	return nil
}
