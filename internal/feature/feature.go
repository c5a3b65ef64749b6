// Package feature turns simulation results into flat, labeled rows
// ready for CSV export and model training.
package feature

import (
	"math"
	"strconv"

	"marketsim/internal/domain"
)

// tradeEntry is one side of a trade, attributed to the agent on that
// side. Every trade expands into a buyer entry and a seller entry.
type tradeEntry struct {
	Time     int64
	AgentID  int64
	Side     domain.Side
	Quantity float64
	Price    float64
}

func expandTrades(trades []domain.Trade) []tradeEntry {
	entries := make([]tradeEntry, 0, 2*len(trades))
	for _, tr := range trades {
		entries = append(entries,
			tradeEntry{
				Time:     tr.Time,
				AgentID:  tr.BuyAgent,
				Side:     domain.SideBuy,
				Quantity: float64(tr.Quantity),
				Price:    tr.Price,
			},
			tradeEntry{
				Time:     tr.Time,
				AgentID:  tr.SellAgent,
				Side:     domain.SideSell,
				Quantity: float64(tr.Quantity),
				Price:    tr.Price,
			},
		)
	}
	return entries
}

// logReturns computes successive log differences of the series, with a
// small epsilon guarding against log of zero.
func logReturns(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = math.Log(series[i]+1e-8) - math.Log(series[i-1]+1e-8)
	}
	return out
}

// populationStd is the population standard deviation (dividing by N).
func populationStd(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
