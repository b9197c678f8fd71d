package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"DivScope/internal/domain/models"
	"DivScope/internal/domain/repository"
	pkgkafka "DivScope/pkg/kafka"
)

// SchemaStatements returns the idempotent DDL for the classified dividend
// table. ReplacingMergeTree keyed by (ticker, ex_date) gives last-write-wins
// upserts: re-classification of a ticker simply inserts a newer version.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.dividends_classified (
            ticker             LowCardinality(String),
            ex_date            Date,
            cash_amount        Float64,
            adjusted_amount    Nullable(Float64),
            payment_type       LowCardinality(String),
            days_since_prev    Nullable(Int32),
            frequency_number   Nullable(Int32),
            frequency_label    LowCardinality(String),
            annualized         Nullable(Float64),
            normalized         Nullable(Float64),
            regular_component  Nullable(Float64),
            special_component  Nullable(Float64),
            updated_at         DateTime DEFAULT now()
        ) ENGINE = ReplacingMergeTree(updated_at)
        ORDER BY (ticker, ex_date)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.ticker_stats (
            ticker           LowCardinality(String),
            kind             LowCardinality(String),
            dividend_sd      Nullable(Float64),
            dividend_cv      Nullable(Float64),
            annual_dividend  Nullable(Float64),
            vol_points       Int32,
            weekly_adjusted  UInt8,
            vol_label        String,
            zscore           Nullable(Float64),
            current_pd       Nullable(Float64),
            avg_pd           Nullable(Float64),
            stddev_pd        Nullable(Float64),
            zscore_points    Int32,
            zscore_status    String,
            updated_at       DateTime DEFAULT now()
        ) ENGINE = ReplacingMergeTree(updated_at)
        ORDER BY ticker`, database),
	}
}

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db    *sql.DB
	table string
	ddl   []string
}

// NewClickHouseStorage creates ClickHouse storage over an existing pool.
func NewClickHouseStorage(db *sql.DB, database string) repository.Storage {
	return &ClickHouseStorage{
		db:    db,
		table: database + ".dividends_classified",
		ddl:   SchemaStatements(database),
	}
}

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	for _, stmt := range s.ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

const insertColumns = "(ticker, ex_date, cash_amount, adjusted_amount, payment_type, days_since_prev, frequency_number, frequency_label, annualized, normalized, regular_component, special_component, updated_at)"

func (s *ClickHouseStorage) Upsert(ctx context.Context, d *models.ClassifiedDividend) error {
	q := fmt.Sprintf("INSERT INTO %s %s VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, insertColumns)
	_, err := s.db.ExecContext(ctx, q, insertArgs(d)...)
	return err
}

func (s *ClickHouseStorage) UpsertBatch(ctx context.Context, divs []*models.ClassifiedDividend) error {
	if len(divs) == 0 {
		return nil
	}
	// Multi-row VALUES to cut round-trips; dividend series are small enough
	// that one chunk per ticker is the common case.
	const chunkSize = 1000
	for start := 0; start < len(divs); start += chunkSize {
		end := start + chunkSize
		if end > len(divs) {
			end = len(divs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*13)
		for _, d := range divs[start:end] {
			if d == nil || d.Ticker == "" || d.ExDate.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, insertArgs(d)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s %s VALUES %s", s.table, insertColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func insertArgs(d *models.ClassifiedDividend) []interface{} {
	return []interface{}{
		d.Ticker,
		d.ExDate,
		d.CashAmount,
		d.AdjustedAmount,
		d.PaymentType,
		d.DaysSincePrevious,
		d.FrequencyNumber,
		d.FrequencyLabel,
		d.AnnualizedAmount,
		d.NormalizedAmount,
		d.RegularComponent,
		d.SpecialComponent,
		time.Now().UTC(),
	}
}

func (s *ClickHouseStorage) Query(ctx context.Context, ticker string, from, to time.Time, limit int) ([]*models.ClassifiedDividend, error) {
	q := fmt.Sprintf(`SELECT ticker, ex_date, cash_amount, adjusted_amount, payment_type, days_since_prev, frequency_number, frequency_label, annualized, normalized, regular_component, special_component
        FROM %s FINAL
        WHERE ticker = ? AND ex_date >= ? AND ex_date <= ?
        ORDER BY ex_date DESC LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divs []*models.ClassifiedDividend
	for rows.Next() {
		d, err := scanClassified(rows)
		if err != nil {
			return nil, err
		}
		divs = append(divs, d)
	}
	return divs, rows.Err()
}

func scanClassified(rows *sql.Rows) (*models.ClassifiedDividend, error) {
	var d models.ClassifiedDividend
	var (
		adjusted   sql.NullFloat64
		daysPrev   sql.NullInt32
		freqNum    sql.NullInt32
		label      string
		annualized sql.NullFloat64
		normalized sql.NullFloat64
		regular    sql.NullFloat64
		special    sql.NullFloat64
	)
	if err := rows.Scan(&d.Ticker, &d.ExDate, &d.CashAmount, &adjusted, &d.PaymentType,
		&daysPrev, &freqNum, &label, &annualized, &normalized, &regular, &special); err != nil {
		return nil, err
	}
	d.ID = models.DividendID(d.Ticker, d.ExDate)
	d.FrequencyLabel = models.FrequencyLabel(label)
	if adjusted.Valid {
		v := adjusted.Float64
		d.AdjustedAmount = &v
	}
	if daysPrev.Valid {
		v := int(daysPrev.Int32)
		d.DaysSincePrevious = &v
	}
	if freqNum.Valid {
		v := int(freqNum.Int32)
		d.FrequencyNumber = &v
	}
	if annualized.Valid {
		v := annualized.Float64
		d.AnnualizedAmount = &v
	}
	if normalized.Valid {
		v := normalized.Float64
		d.NormalizedAmount = &v
	}
	if regular.Valid {
		v := regular.Float64
		d.RegularComponent = &v
	}
	if special.Valid {
		v := special.Float64
		d.SpecialComponent = &v
	}
	return &d, nil
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher for the classified-dividends topic.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, d *models.ClassifiedDividend) error {
	return p.producer.Publish(ctx, p.topic, []byte(d.Ticker), classifiedPayload(d))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, divs []*models.ClassifiedDividend) error {
	if len(divs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(divs))
	for i, d := range divs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(d.Ticker),
			Value: classifiedPayload(d),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func classifiedPayload(d *models.ClassifiedDividend) map[string]interface{} {
	return map[string]interface{}{
		"id":           d.ID,
		"ticker":       d.Ticker,
		"ex_date":      d.ExDate.Format("2006-01-02"),
		"payment_type": d.PaymentType,
		"frequency":    d.FrequencyNumber,
		"label":        d.FrequencyLabel,
		"annualized":   d.AnnualizedAmount,
		"normalized":   d.NormalizedAmount,
	}
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
