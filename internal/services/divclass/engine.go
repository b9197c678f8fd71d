package divclass

import (
	"strings"

	"DivScope/internal/domain/models"
)

// Engine routes a ticker to the classifier variant matching its fund
// structure. Closed-end funds get the amount-first cascade, everything else
// the general date-gap classifier.
type Engine struct {
	opts       Options
	cefOpts    CEFOptions
	cefTickers map[string]struct{}
}

// NewEngine builds an engine with the given tunings and the set of tickers
// known to be closed-end funds.
func NewEngine(opts Options, cefOpts CEFOptions, cefTickers []string) *Engine {
	set := make(map[string]struct{}, len(cefTickers))
	for _, t := range cefTickers {
		set[strings.ToUpper(t)] = struct{}{}
	}
	return &Engine{opts: opts, cefOpts: cefOpts, cefTickers: set}
}

// Kind reports which engine variant applies to a ticker.
func (e *Engine) Kind(ticker string) models.FundKind {
	if _, ok := e.cefTickers[strings.ToUpper(ticker)]; ok {
		return models.FundCEF
	}
	return models.FundETF
}

// Classify runs the variant matching the ticker's fund kind.
func (e *Engine) Classify(ticker string, events []models.DividendEvent) []models.ClassifiedDividend {
	if e.Kind(ticker) == models.FundCEF {
		return ClassifyCEF(events, e.cefOpts)
	}
	return Classify(events, e.opts)
}
