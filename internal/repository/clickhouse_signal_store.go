package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
	pkgch "SignalForge/pkg/clickhouse"
	applogger "SignalForge/pkg/logger"
)

// CHSignalStore keeps the history of final signals, one row per cycle. The full
// AnalysisResult is kept as JSON next to the flattened columns.
type CHSignalStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.SignalStore = (*CHSignalStore)(nil)

func NewCHSignalStore(ch *pkgch.Client, table string, l *applogger.Logger) *CHSignalStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHSignalStore{db: ch.DB(), table: qualify(ch.Database(), table), l: l}
}

// SignalsSchema returns the DDL for the signal history table.
func SignalsSchema(database, table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id          String,
            symbol      LowCardinality(String),
            ts          DateTime64(3, 'UTC'),
            price       Float64,
            direction   LowCardinality(String),
            confidence  Float64,
            long_score  Float64,
            short_score Float64,
            threshold   Float64,
            payload     String
        ) ENGINE = MergeTree
        ORDER BY (symbol, ts)`, qualify(database, table)),
	}
}

func (s *CHSignalStore) Save(ctx context.Context, r *models.AnalysisResult) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	rec := r.Record()
	q := fmt.Sprintf(`INSERT INTO %s (id, symbol, ts, price, direction, confidence, long_score, short_score, threshold, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	if _, err := s.db.ExecContext(ctx, q,
		rec.ID, rec.Symbol, rec.Timestamp, rec.Price.Float(), string(rec.Direction),
		rec.Confidence, rec.LongScore, rec.ShortScore, rec.Threshold, string(payload),
	); err != nil {
		s.l.Error("clickhouse save_signal error",
			applogger.String("table", s.table),
			applogger.String("symbol", rec.Symbol),
			applogger.Error(err),
		)
		return fmt.Errorf("save signal: %w", err)
	}
	return nil
}

// Recent returns the latest limit records for symbol, newest first.
func (s *CHSignalStore) Recent(ctx context.Context, symbol string, limit int) ([]models.SignalRecord, error) {
	const qtpl = `
        SELECT id, symbol, ts, price, direction, confidence, long_score, short_score, threshold
        FROM %s
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(qtpl, s.table), symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.SignalRecord, 0, limit)
	for rows.Next() {
		var (
			rec   models.SignalRecord
			dir   string
			price float64
		)
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Timestamp, &price, &dir,
			&rec.Confidence, &rec.LongScore, &rec.ShortScore, &rec.Threshold); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		rec.Direction = models.Direction(dir)
		rec.Price = models.Number(price)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
