// Package sink delivers finished reports to their destinations: a
// Postgres history table and per-session JSON files on disk.
package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

type PostgresSink struct {
	db        *sql.DB
	tableName string
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, tableName: table}
}

func (p *PostgresSink) Name() string { return "postgres" }

// WriteReport inserts one report row. The structured sections go in as
// jsonb so the history table stays queryable without schema churn.
func (p *PostgresSink) WriteReport(r *domain.Report) error {
	if r == nil {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(p.tableName)
	b.WriteString(" (ts, share_path, metrics, issues, recommendations, anomalies, prediction) VALUES ($1,$2,$3,$4,$5,$6,$7)")

	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	issues, err := json.Marshal(r.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	recs, err := json.Marshal(r.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	anomalies, err := json.Marshal(r.Anomalies)
	if err != nil {
		return fmt.Errorf("marshal anomalies: %w", err)
	}
	prediction, err := json.Marshal(r.Prediction)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}

	_, err = p.db.Exec(b.String(), r.Timestamp, r.SharePath, metrics, issues, recs, anomalies, prediction)
	return err
}

var _ ports.ReportSink = (*PostgresSink)(nil)
