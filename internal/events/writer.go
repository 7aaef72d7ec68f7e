// Package events keeps the append-only audit log of launch and permit
// changes. The engine writes one entry per mutation; nothing else in the
// system reads the log back except the log tail views.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

type Payload map[string]any

// Event is one audit log entry.
type Event struct {
	ID         int64   `json:"id"`
	TS         string  `json:"ts" format:"date-time"`
	Type       string  `json:"type"`
	LaunchID   string  `json:"launch_id,omitempty"`
	EntityKind string  `json:"entity_kind"`
	EntityID   string  `json:"entity_id,omitempty"`
	ActorID    string  `json:"actor_id"`
	Payload    Payload `json:"payload"`
}

// Writer appends audit entries. Append failures should not abort the
// mutation that triggered them; callers decide.
type Writer interface {
	Append(ctx context.Context, evtType, launchID, entityKind, entityID, actorID string, payload Payload) error
}

// SQLWriter persists events next to the launch collection.
type SQLWriter struct {
	DB  *sql.DB
	Now func() time.Time
}

func (w SQLWriter) Append(ctx context.Context, evtType, launchID, entityKind, entityID, actorID string, payload Payload) error {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx, `INSERT INTO events(ts,type,launch_id,entity_kind,entity_id,actor_id,payload_json) VALUES (?,?,?,?,?,?,?)`,
		now().UTC().Format(time.RFC3339), evtType, nullable(launchID), entityKind, nullable(entityID), actorID, string(data))
	return err
}

// Latest returns up to n most recent events, optionally filtered.
func (w SQLWriter) Latest(ctx context.Context, n int, launchID, evtType, entityKind, entityID string) ([]Event, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if launchID != "" {
		clauses = append(clauses, "launch_id=?")
		args = append(args, launchID)
	}
	if evtType != "" {
		clauses = append(clauses, "type=?")
		args = append(args, evtType)
	}
	if entityKind != "" {
		clauses = append(clauses, "entity_kind=?")
		args = append(args, entityKind)
	}
	if entityID != "" {
		clauses = append(clauses, "entity_id=?")
		args = append(args, entityID)
	}
	if n <= 0 {
		n = 20
	}
	args = append(args, n)
	query := `SELECT id,ts,type,COALESCE(launch_id,''),entity_kind,COALESCE(entity_id,''),actor_id,payload_json FROM events WHERE ` +
		strings.Join(clauses, " AND ") + ` ORDER BY id DESC LIMIT ?`
	rows, err := w.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Event
	for rows.Next() {
		var e Event
		var payload string
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.LaunchID, &e.EntityKind, &e.EntityID, &e.ActorID, &payload); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(payload), &e.Payload)
		res = append(res, e)
	}
	return res, rows.Err()
}

// MemoryWriter collects events in memory, for embedding and tests.
type MemoryWriter struct {
	mu     sync.Mutex
	Events []Event
}

func (w *MemoryWriter) Append(ctx context.Context, evtType, launchID, entityKind, entityID, actorID string, payload Payload) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Events = append(w.Events, Event{
		ID:         int64(len(w.Events) + 1),
		TS:         time.Now().UTC().Format(time.RFC3339),
		Type:       evtType,
		LaunchID:   launchID,
		EntityKind: entityKind,
		EntityID:   entityID,
		ActorID:    actorID,
		Payload:    payload,
	})
	return nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
