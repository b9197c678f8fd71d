package repository

import (
	"context"
	"time"

	"DivScope/internal/domain/models"
)

// DividendReader provides read-only access to the classified series for the
// API and analytics layers.
type DividendReader interface {
	GetClassified(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.ClassifiedDividend, error)
	GetLatestN(ctx context.Context, ticker string, n int) ([]models.ClassifiedDividend, error)
}
