package models

// Requests for the dividends HTTP endpoints. Defined in domain for consistency and reuse.

type DividendsRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,min=1,max=12"`
	Range  string `query:"range" json:"range" default:"3y" validate:"omitempty,oneof=1y 3y 5y all"`
	Limit  int    `query:"limit" json:"limit" default:"0" validate:"gte=0,lte=10000"`
}

type VolatilityRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,min=1,max=12"`
}

type ZScoreRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,min=1,max=12"`
}

type StatsRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,min=1,max=12"`
}

type RefreshRequest struct {
	Ticker string `json:"ticker" validate:"required,min=1,max=12"`
}
