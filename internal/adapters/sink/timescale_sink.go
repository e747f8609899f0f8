package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// TimescaleSink writes readings into a hypertable keyed by (entity_id, ts, seq).
type TimescaleSink struct {
	db        *sql.DB
	tableName string
}

func NewTimescaleSink(db *sql.DB, table string) *TimescaleSink {
	return &TimescaleSink{db: db, tableName: table}
}

func (t *TimescaleSink) Name() string { return "timescaledb" }

func (t *TimescaleSink) WriteBatch(readings []*domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (entity_id, station, sensor_type, channel, ts, seq, values) VALUES ")

	args := make([]any, 0, len(readings)*7)
	for i, r := range readings {
		if i > 0 {
			b.WriteString(",")
		}
		n := len(args)
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			n+1, n+2, n+3, n+4, n+5, n+6, n+7))
		vals, err := json.Marshal(r.Values)
		if err != nil {
			return fmt.Errorf("marshal values: %w", err)
		}

		args = append(args,
			string(r.EntityID),
			r.Station,
			string(r.SensorType),
			r.Channel,
			r.Timestamp,
			r.Seq,
			vals,
		)
	}

	// replays of the same snapshot are idempotent
	b.WriteString(" ON CONFLICT (entity_id, ts, seq) DO NOTHING")

	_, err := t.db.Exec(b.String(), args...)
	return err
}

var _ ports.Sink = (*TimescaleSink)(nil)
