// Package events appends entries to the project activity trail.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Event is one activity-trail entry. CreatedAt is an RFC3339 stamp supplied
// by the caller so the event shares the clock of the mutation it records.
type Event struct {
	Type        string
	ProjectID   string
	EntityID    string
	Description string
	Payload     map[string]any
	CreatedAt   string
}

// Append inserts the event inside the caller's transaction; the trail entry
// lands atomically with the mutation that produced it, or not at all.
func Append(ctx context.Context, tx *sql.Tx, ev Event) error {
	payload := ev.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	var entity any
	if ev.EntityID != "" {
		entity = ev.EntityID
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO activity_events(id,project_id,type,entity_id,description,payload_json,created_at) VALUES (?,?,?,?,?,?,?)`,
		uuid.NewString(), ev.ProjectID, ev.Type, entity, ev.Description, string(data), ev.CreatedAt)
	return err
}
