package ghg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// EnvelopeVersion is written into every stored envelope.
const EnvelopeVersion = "1.0"

// Persisted data keys.
const (
	KeyQuestionnaire   = "questionnaire"
	KeyEntries         = "entries"
	KeyEmissionFactors = "emission_factors"
	KeyCurrentStep     = "current_step"
)

// Envelope wraps every persisted value.
type Envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Version   string          `json:"version"`
}

// NewEnvelope encodes data into an envelope stamped with now.
func NewEnvelope(data interface{}, now time.Time) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal envelope data: %w", err)
	}
	return Envelope{Data: raw, Timestamp: now.UTC(), Version: EnvelopeVersion}, nil
}

// Decode unmarshals the envelope payload into dest.
func (e Envelope) Decode(dest interface{}) error {
	if len(e.Data) == 0 {
		return errors.New("empty envelope data")
	}
	return json.Unmarshal(e.Data, dest)
}

// Repository stores per-user envelopes under a key.
type Repository interface {
	Save(ctx context.Context, userID, key string, env Envelope) error
	// Load returns found=false when nothing is stored under key.
	Load(ctx context.Context, userID, key string) (Envelope, bool, error)
	Remove(ctx context.Context, userID, key string) error
	Clear(ctx context.Context, userID string) error
	Keys(ctx context.Context, userID string) ([]string, error)
}

// SQLRepository implements Repository on any sqlx database that supports
// INSERT ... ON CONFLICT (PostgreSQL, SQLite).
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new SQL repository
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS ghg_user_data (
		user_id    TEXT NOT NULL,
		data_key   TEXT NOT NULL,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, data_key)
	)
`

// Migrate creates the storage table if needed.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create ghg_user_data: %w", err)
	}
	return nil
}

type userDataRow struct {
	UserID    string `db:"user_id"`
	DataKey   string `db:"data_key"`
	Payload   string `db:"payload"`
	UpdatedAt string `db:"updated_at"`
}

func (r *SQLRepository) Save(ctx context.Context, userID, key string, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO ghg_user_data (user_id, data_key, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, data_key)
		DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`)
	_, err = r.db.ExecContext(ctx, query, userID, key, string(payload), env.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Load(ctx context.Context, userID, key string) (Envelope, bool, error) {
	var row userDataRow
	query := r.db.Rebind(`
		SELECT user_id, data_key, payload, updated_at
		FROM ghg_user_data
		WHERE user_id = ? AND data_key = ?
	`)
	if err := r.db.GetContext(ctx, &row, query, userID, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Envelope{}, false, nil
		}
		return Envelope{}, false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	var env Envelope
	if err := json.Unmarshal([]byte(row.Payload), &env); err != nil {
		return Envelope{}, false, fmt.Errorf("failed to decode %s envelope: %w", key, err)
	}
	return env, true, nil
}

func (r *SQLRepository) Remove(ctx context.Context, userID, key string) error {
	query := r.db.Rebind(`DELETE FROM ghg_user_data WHERE user_id = ? AND data_key = ?`)
	if _, err := r.db.ExecContext(ctx, query, userID, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Clear(ctx context.Context, userID string) error {
	query := r.db.Rebind(`DELETE FROM ghg_user_data WHERE user_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear user data: %w", err)
	}
	return nil
}

func (r *SQLRepository) Keys(ctx context.Context, userID string) ([]string, error) {
	keys := []string{}
	query := r.db.Rebind(`SELECT data_key FROM ghg_user_data WHERE user_id = ? ORDER BY data_key`)
	if err := r.db.SelectContext(ctx, &keys, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}
