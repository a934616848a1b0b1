package analytics

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
)

const (
	queueSize     = 1024
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// Event represents a single trackable event
type Event struct {
	Type      string
	PlayerID  string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	events chan Event
	stop   chan struct{}
	wg     sync.WaitGroup
	logger *slog.Logger
	once   sync.Once
}

// New creates and starts the analytics background writer. A nil db makes
// every call a no-op.
func New(db *DB, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analytics{
		db:     db,
		events: make(chan Event, queueSize),
		stop:   make(chan struct{}),
		logger: logger.With("component", "analytics"),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(event, playerID string, data map[string]any) {
	var encoded string
	if len(data) > 0 {
		if b, err := json.Marshal(data); err == nil {
			encoded = string(b)
		}
	}
	select {
	case a.events <- Event{
		Type:      event,
		PlayerID:  playerID,
		Data:      encoded,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full, drop event rather than blocking the tick loop
	}
}

// Stop flushes pending events and shuts down the writer. It is safe to
// call more than once.
func (a *Analytics) Stop() {
	a.once.Do(func() {
		close(a.stop)
		a.wg.Wait()
	})
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]Event, 0, 64)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= batchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain remaining events
		drain:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []Event) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		a.logger.Error("begin tx", "error", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, player_id, data, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		a.logger.Error("prepare insert", "error", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullString{String: evt.PlayerID, Valid: evt.PlayerID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, pid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			a.logger.Error("insert event", "type", evt.Type, "error", err)
		}
	}
	if err := tx.Commit(); err != nil {
		a.logger.Error("commit", "error", err)
	}
}

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, oops.With("days", days).Wrap(err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// DistinctPlayers returns the number of players seen in the last N days
func (a *Analytics) DistinctPlayers(days int) (int, error) {
	if a.db == nil {
		return 0, nil
	}
	var count int
	err := a.db.conn.QueryRow(`
		SELECT COUNT(DISTINCT player_id) FROM analytics_events
		WHERE player_id IS NOT NULL AND created_at >= date('now', '-' || ? || ' days')
	`, days).Scan(&count)
	if err != nil {
		return 0, oops.With("days", days).Wrap(err)
	}
	return count, nil
}
