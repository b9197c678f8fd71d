package usecase

import (
	"context"
	"fmt"
	"time"

	"DivScope/internal/domain/models"
	domrepo "DivScope/internal/domain/repository"
)

// DividendsUseCase provides business logic for reading classified series.
type DividendsUseCase struct {
	reader domrepo.DividendReader
}

func NewDividendsUseCase(reader domrepo.DividendReader) *DividendsUseCase {
	return &DividendsUseCase{reader: reader}
}

type GetDividendsParams struct {
	Ticker string
	Window domrepo.Window
	Limit  int
}

type GetDividendsResult struct {
	Ticker    string
	Window    string
	From      time.Time
	To        time.Time
	Count     int
	Dividends []models.ClassifiedDividend
}

func (uc *DividendsUseCase) GetDividends(ctx context.Context, p GetDividendsParams) (*GetDividendsResult, error) {
	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	if !domrepo.IsValidWindow(p.Window) {
		p.Window = domrepo.DefaultWindow()
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}

	to := time.Now().UTC()
	from := p.Window.Since(to)
	divs, err := uc.reader.GetClassified(ctx, p.Ticker, from, to, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get dividends: %w", err)
	}

	return &GetDividendsResult{
		Ticker:    p.Ticker,
		Window:    string(p.Window),
		From:      from,
		To:        to,
		Count:     len(divs),
		Dividends: divs,
	}, nil
}
