package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/memory/migrations"
)

const dsnOptions = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// Config holds the configuration for the SQLite repository
type Config struct {
	Path        string
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if strings.TrimSpace(c.Path) == "" {
		vb.RequiredField("Path")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// SQLite is a Repository backed by a single SQLite file
type SQLite struct {
	db    *sql.DB
	clock clock.Clock
	ids   idgen.Generator
}

var _ Repository = (*SQLite)(nil)

// NewSQLite opens the database at cfg.Path and applies pending migrations
func NewSQLite(ctx context.Context, cfg *Config) (*SQLite, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	db, err := sql.Open("sqlite", filepath.Clean(cfg.Path)+dsnOptions)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open sqlite database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite database")
	}

	if err := applyMigrations(ctx, db, migrations.FS, cfg.Clock.Now().UTC().UnixMilli()); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate sqlite database")
	}

	return &SQLite{
		db:    db,
		clock: cfg.Clock,
		ids:   cfg.IDGenerator,
	}, nil
}

// Close releases the database handle
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveMemory stores a memory
func (s *SQLite) SaveMemory(ctx context.Context, memory *entities.Memory) error {
	if memory == nil {
		return errors.InvalidArgument("memory is required")
	}
	if memory.NPCID == "" {
		return errors.InvalidArgument("npc ID is required")
	}
	if strings.TrimSpace(memory.Description) == "" {
		return errors.InvalidArgument("description is required")
	}
	if memory.Kind == "" {
		memory.Kind = entities.MemoryCommand
	}
	if memory.ID == "" {
		memory.ID = s.ids.Generate()
	}
	if memory.CreatedAt.IsZero() {
		memory.CreatedAt = s.clock.Now().UTC()
	}

	var expires sql.NullInt64
	if memory.ExpiresOnDay > 0 {
		expires = sql.NullInt64{Int64: int64(memory.ExpiresOnDay), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO npc_memory (
	id,
	npc_id,
	kind,
	description,
	sentiment,
	game_day,
	expires_on_day,
	is_active,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		memory.ID,
		memory.NPCID,
		string(memory.Kind),
		memory.Description,
		memory.Sentiment,
		memory.GameDay,
		expires,
		boolToInt(memory.Active),
		memory.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to save memory for %s", memory.NPCID)
	}
	return nil
}

// ActiveMemories returns unexpired memories for npcID
func (s *SQLite) ActiveMemories(ctx context.Context, npcID string, day, limit int) ([]*entities.Memory, error) {
	if npcID == "" {
		return nil, errors.InvalidArgument("npc ID is required")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT
	id,
	npc_id,
	kind,
	description,
	sentiment,
	game_day,
	expires_on_day,
	is_active,
	created_at
FROM npc_memory
WHERE npc_id = ?
	AND is_active = 1
	AND (expires_on_day IS NULL OR expires_on_day > ?)
ORDER BY game_day DESC, created_at DESC
LIMIT ?
`, npcID, day, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query memories for %s", npcID)
	}
	defer func() { _ = rows.Close() }()

	var memories []*entities.Memory
	for rows.Next() {
		var (
			m         entities.Memory
			kind      string
			expires   sql.NullInt64
			active    int
			createdAt int64
		)
		if err := rows.Scan(
			&m.ID,
			&m.NPCID,
			&kind,
			&m.Description,
			&m.Sentiment,
			&m.GameDay,
			&expires,
			&active,
			&createdAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan memory")
		}
		m.Kind = entities.MemoryKind(kind)
		m.Active = active == 1
		if expires.Valid {
			m.ExpiresOnDay = int(expires.Int64)
		}
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		memories = append(memories, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate memories")
	}
	return memories, nil
}

// DeactivateMemory marks a memory inactive
func (s *SQLite) DeactivateMemory(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidArgument("memory ID is required")
	}

	res, err := s.db.ExecContext(ctx, `UPDATE npc_memory SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to deactivate memory %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return errors.NotFoundf("memory %s not found", id)
	}
	return nil
}

// SaveEvent stores a game event
func (s *SQLite) SaveEvent(ctx context.Context, event *entities.GameEvent) error {
	if event == nil {
		return errors.InvalidArgument("event is required")
	}
	if event.Type == "" {
		return errors.InvalidArgument("event type is required")
	}
	if event.ID == "" {
		event.ID = s.ids.Generate()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.clock.Now().UTC()
	}

	var data sql.NullString
	if len(event.Data) > 0 {
		raw, err := json.Marshal(event.Data)
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to encode event data")
		}
		data = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_events (
	id,
	event_type,
	primary_entity_id,
	secondary_entity_id,
	description,
	data_json,
	game_day,
	is_generated,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		event.ID,
		string(event.Type),
		event.PrimaryID,
		event.SecondaryID,
		event.Description,
		data,
		event.GameDay,
		boolToInt(event.Generated),
		event.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to save %s event", event.Type)
	}
	return nil
}

// RecentEvents returns the latest events
func (s *SQLite) RecentEvents(ctx context.Context, limit int) ([]*entities.GameEvent, error) {
	if limit <= 0 {
		return nil, errors.InvalidArgument("limit must be greater than zero")
	}
	return s.queryEvents(ctx, `
SELECT id, event_type, primary_entity_id, secondary_entity_id, description, data_json, game_day, is_generated, created_at
FROM game_events
ORDER BY game_day DESC, created_at DESC
LIMIT ?
`, limit)
}

// EventsFor returns the latest events naming entityID
func (s *SQLite) EventsFor(ctx context.Context, entityID string, limit int) ([]*entities.GameEvent, error) {
	if entityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}
	if limit <= 0 {
		return nil, errors.InvalidArgument("limit must be greater than zero")
	}
	return s.queryEvents(ctx, `
SELECT id, event_type, primary_entity_id, secondary_entity_id, description, data_json, game_day, is_generated, created_at
FROM game_events
WHERE primary_entity_id = ? OR secondary_entity_id = ?
ORDER BY game_day DESC, created_at DESC
LIMIT ?
`, entityID, entityID, limit)
}

func (s *SQLite) queryEvents(ctx context.Context, query string, args ...any) ([]*entities.GameEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer func() { _ = rows.Close() }()

	var events []*entities.GameEvent
	for rows.Next() {
		var (
			e         entities.GameEvent
			eventType string
			data      sql.NullString
			generated int
			createdAt int64
		)
		if err := rows.Scan(
			&e.ID,
			&eventType,
			&e.PrimaryID,
			&e.SecondaryID,
			&e.Description,
			&data,
			&e.GameDay,
			&generated,
			&createdAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		e.Type = entities.EventType(eventType)
		e.Generated = generated == 1
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		if data.Valid && data.String != "" {
			if err := json.Unmarshal([]byte(data.String), &e.Data); err != nil {
				return nil, errors.Wrapf(err, "failed to decode data for event %s", e.ID)
			}
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate events")
	}
	return events, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
