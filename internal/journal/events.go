package journal

import (
	"fmt"
)

// Event kinds.
const (
	KindGesture = "gesture"
	KindCommit  = "commit"
	KindDrop    = "drop"
	KindRecover = "recover"
)

// Event is one journal entry.
type Event struct {
	EventID   int64
	SessionID string
	TsMs      int64
	Kind      string
	GestureID *string
	Command   *string
	Rule      *string
	Detail    *string
}

// EventRepository provides CRUD operations for events.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts e and returns its ID.
func (r *EventRepository) Create(e Event) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO events (session_id, ts_ms, kind, gesture_id, command, rule, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.SessionID, e.TsMs, e.Kind, e.GestureID, e.Command, e.Rule, e.Detail)

	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get event ID: %w", err)
	}

	return id, nil
}

// ListBySession retrieves all events for a session in time order.
func (r *EventRepository) ListBySession(sessionID string) ([]Event, error) {
	rows, err := r.db.Query(`
		SELECT event_id, session_id, ts_ms, kind, gesture_id, command, rule, detail
		FROM events
		WHERE session_id = ?
		ORDER BY ts_ms, event_id
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		err := rows.Scan(&e.EventID, &e.SessionID, &e.TsMs, &e.Kind, &e.GestureID, &e.Command, &e.Rule, &e.Detail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// Counts returns the number of events per kind. An empty sessionID counts
// across all sessions.
func (r *EventRepository) Counts(sessionID string) (map[string]int, error) {
	query := "SELECT kind, COUNT(*) FROM events GROUP BY kind"
	args := []any{}
	if sessionID != "" {
		query = "SELECT kind, COUNT(*) FROM events WHERE session_id = ? GROUP BY kind"
		args = append(args, sessionID)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[kind] = n
	}

	return counts, rows.Err()
}

// RuleCounts returns how often each classification rule ended a gesture.
func (r *EventRepository) RuleCounts(sessionID string) (map[string]int, error) {
	query := "SELECT COALESCE(rule, ''), COUNT(*) FROM events WHERE kind = 'gesture' GROUP BY rule"
	args := []any{}
	if sessionID != "" {
		query = "SELECT COALESCE(rule, ''), COUNT(*) FROM events WHERE kind = 'gesture' AND session_id = ? GROUP BY rule"
		args = append(args, sessionID)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count rules: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var rule string
		var n int
		if err := rows.Scan(&rule, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[rule] = n
	}

	return counts, rows.Err()
}
