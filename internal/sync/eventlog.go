package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hackforge/hackforge/internal/judging"
)

const TypeScoreFinalized = "ScoreFinalized"

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	site := e.SiteID
	if site == "" {
		site = r.siteID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		site, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// ScoreFinalized satisfies judging.EventSink.
func (r *EventRepo) ScoreFinalized(ctx context.Context, s judging.Score) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{
		Type:     TypeScoreFinalized,
		Key:      s.ID,
		DataJSON: string(b),
	})
}
