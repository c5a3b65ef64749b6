package feature

import (
	"strconv"

	"marketsim/internal/domain"
	"marketsim/internal/sim"
)

// WindowRow aggregates market activity over one fixed, non-overlapping
// window of ticks. It is the sequence-model counterpart to AgentRow:
// the label marks whether any illegal agent traded inside the window.
type WindowRow struct {
	RunID              int64
	WindowIndex        int
	StartTime          int64
	EndTime            int64
	NumTrades          int
	TotalVolume        float64
	BuyVolume          float64
	SellVolume         float64
	NumActiveAgents    int
	RealizedVolatility float64
	HasIllegalActivity bool
	EventDistance      float64
}

// WindowHeader returns the CSV header for window feature rows.
func WindowHeader() []string {
	return []string{
		"run_id", "window_index", "start_time", "end_time", "n_trades",
		"total_volume", "buy_volume", "sell_volume", "n_active_agents",
		"realized_volatility", "has_illegal_activity", "event_distance",
	}
}

// Record renders the row for CSV output, in WindowHeader order. The
// illegal-activity label is written as 0/1.
func (r WindowRow) Record() []string {
	illegal := "0"
	if r.HasIllegalActivity {
		illegal = "1"
	}
	return []string{
		strconv.FormatInt(r.RunID, 10),
		strconv.Itoa(r.WindowIndex),
		strconv.FormatInt(r.StartTime, 10),
		strconv.FormatInt(r.EndTime, 10),
		strconv.Itoa(r.NumTrades),
		formatFloat(r.TotalVolume),
		formatFloat(r.BuyVolume),
		formatFloat(r.SellVolume),
		strconv.Itoa(r.NumActiveAgents),
		formatFloat(r.RealizedVolatility),
		illegal,
		formatFloat(r.EventDistance),
	}
}

// ExtractWindowFeatures slices the run into ticks/windowSize full
// windows and aggregates each. Trade counts and total volume come from
// the raw trade log; buy and sell volumes come from the per-side
// entries, so each equals the window's total. Realized volatility is
// the population std of the window's log mid returns. Ticks past the
// last full window are dropped.
func ExtractWindowFeatures(res *sim.Result, windowSize int64) []WindowRow {
	if len(res.Mids) == 0 || windowSize <= 0 {
		return nil
	}

	illegal := make(map[int64]bool)
	for _, a := range res.Agents {
		if a.Meta().IsIllegal {
			illegal[a.ID()] = true
		}
	}

	entries := expandTrades(res.Trades)
	ticks := int64(len(res.Mids))
	returns := logReturns(res.Mids)

	var eventTime int64
	if res.Config.HasEvent && res.Config.EventTime > 0 {
		eventTime = res.Config.EventTime
	}

	numWindows := ticks / windowSize
	rows := make([]WindowRow, 0, numWindows)
	for w := int64(0); w < numWindows; w++ {
		start := w * windowSize
		end := start + windowSize

		row := WindowRow{
			RunID:       res.Config.RunID,
			WindowIndex: int(w),
			StartTime:   start,
			EndTime:     end,
		}

		for _, tr := range res.Trades {
			if tr.Time >= start && tr.Time < end {
				row.NumTrades++
				row.TotalVolume += float64(tr.Quantity)
			}
		}

		active := make(map[int64]bool)
		for _, e := range entries {
			if e.Time < start || e.Time >= end {
				continue
			}
			active[e.AgentID] = true
			if e.Side == domain.SideBuy {
				row.BuyVolume += e.Quantity
			} else {
				row.SellVolume += e.Quantity
			}
			if illegal[e.AgentID] {
				row.HasIllegalActivity = true
			}
		}
		row.NumActiveAgents = len(active)

		var windowReturns []float64
		if end < ticks {
			windowReturns = returns[start : end-1]
		} else {
			windowReturns = returns[start:]
		}
		row.RealizedVolatility = populationStd(windowReturns)

		if eventTime > 0 {
			row.EventDistance = float64(start+end)/2 - float64(eventTime)
		}

		rows = append(rows, row)
	}
	return rows
}
