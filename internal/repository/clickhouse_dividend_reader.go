package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"DivScope/internal/domain/models"
	pkgch "DivScope/pkg/clickhouse"
	applogger "DivScope/pkg/logger"
)

// CHDividendReader implements DividendReader backed by ClickHouse.
type CHDividendReader struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHDividendReader(ch *pkgch.Client, database string) *CHDividendReader {
	return &CHDividendReader{db: ch.DB(), table: database + ".dividends_classified"}
}

// SetLogger injects a structured logger.
func (r *CHDividendReader) SetLogger(l *applogger.Logger) { r.l = l }

const readColumns = `ticker, ex_date, cash_amount, adjusted_amount, payment_type, days_since_prev, frequency_number, frequency_label, annualized, normalized, regular_component, special_component`

func (r *CHDividendReader) GetClassified(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.ClassifiedDividend, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT %s
        FROM %s FINAL
        WHERE ticker = ? AND ex_date >= ? AND ex_date <= ?
        ORDER BY ex_date ASC
        LIMIT ?
    `, readColumns, r.table)
	rows, err := r.db.QueryContext(ctx, q, ticker, from, to, limit)
	if err != nil {
		if r.l != nil {
			r.l.Error("clickhouse get_classified query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get classified: %w", err)
	}
	defer rows.Close()

	out := make([]models.ClassifiedDividend, 0, 64)
	for rows.Next() {
		d, err := scanClassified(rows)
		if err != nil {
			if r.l != nil {
				r.l.Error("clickhouse get_classified scan error",
					applogger.String("ticker", ticker),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan classified: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if r.l != nil {
		r.l.Info("clickhouse get_classified ok",
			applogger.String("ticker", ticker),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (r *CHDividendReader) GetLatestN(ctx context.Context, ticker string, n int) ([]models.ClassifiedDividend, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT %s
        FROM %s FINAL
        WHERE ticker = ?
        ORDER BY ex_date DESC
        LIMIT ?
    `, readColumns, r.table)
	rows, err := r.db.QueryContext(ctx, q, ticker, n)
	if err != nil {
		if r.l != nil {
			r.l.Error("clickhouse latest_classified query error",
				applogger.String("ticker", ticker),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest classified: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.ClassifiedDividend, 0, n)
	for rows.Next() {
		d, err := scanClassified(rows)
		if err != nil {
			return nil, fmt.Errorf("scan classified: %w", err)
		}
		tmp = append(tmp, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if r.l != nil {
		r.l.Info("clickhouse latest_classified ok",
			applogger.String("ticker", ticker),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}
