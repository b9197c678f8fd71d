package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"DivScope/internal/domain/models"
	"DivScope/internal/domain/repository"
)

// CHStatsStore persists the latest analytics snapshot per ticker. The table
// is a ReplacingMergeTree keyed by ticker, so every upsert simply inserts a
// newer version.
type CHStatsStore struct {
	db    *sql.DB
	table string
}

func NewCHStatsStore(db *sql.DB, database string) repository.StatsStore {
	return &CHStatsStore{db: db, table: database + ".ticker_stats"}
}

func (s *CHStatsStore) UpsertStats(ctx context.Context, stats models.AggregateStats) error {
	query := fmt.Sprintf(`INSERT INTO %s
        (ticker, kind, dividend_sd, dividend_cv, annual_dividend, vol_points,
         weekly_adjusted, vol_label, zscore, current_pd, avg_pd, stddev_pd,
         zscore_points, zscore_status, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	var (
		sd, cv, annual        *float64
		z, curPD, avgPD, sdPD *float64
		volPoints, zPoints    int
		weeklyAdjusted        uint8
		volLabel, zStatus     string
	)
	if v := stats.Volatility; v != nil {
		sd, cv, annual = v.DividendSD, v.DividendCV, v.AnnualDividend
		volPoints = v.DataPoints
		if v.WeeklyAdjusted {
			weeklyAdjusted = 1
		}
		volLabel = v.Label
	}
	if zs := stats.ZScore; zs != nil {
		z, curPD, avgPD, sdPD = zs.ZScore, zs.CurrentPD, zs.AvgPD, zs.StdDevPD
		zPoints = zs.DataPoints
		zStatus = zs.Status
	}

	_, err := s.db.ExecContext(ctx, query,
		stats.Ticker, string(stats.Kind),
		sd, cv, annual, volPoints, weeklyAdjusted, volLabel,
		z, curPD, avgPD, sdPD, zPoints, zStatus,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert stats %s: %w", stats.Ticker, err)
	}
	return nil
}
