package feature

import (
	"strconv"

	"marketsim/internal/domain"
	"marketsim/internal/sim"
)

// AgentRow is one labeled training example summarizing an agent's
// behavior and outcome over a full run. Volumes count each execution
// once per side, so an agent on both sides of a trade is counted
// twice.
type AgentRow struct {
	RunID                 int64
	AgentID               int64
	Type                  string
	LabelIsIllegal        bool
	LabelIllegalType      string
	GroupID               int64
	CashFinal             float64
	PositionFinal         int64
	EquityFinal           float64
	NumTrades             int
	TotalVolume           float64
	NetVolume             float64
	AvgTradeSize          float64
	BuyVolume             float64
	SellVolume            float64
	PreEventVolume        float64
	PostEventVolume       float64
	AlignedPreEventVolume float64
}

// AgentHeader returns the CSV header for agent feature rows.
func AgentHeader() []string {
	return []string{
		"run_id", "agent_id", "type", "label_is_illegal", "label_illegal_type",
		"group_id", "cash_final", "position_final", "equity_final", "n_trades",
		"total_volume", "net_volume", "avg_trade_size", "buy_volume", "sell_volume",
		"pre_event_volume", "post_event_volume", "aligned_pre_event_volume",
	}
}

// Record renders the row for CSV output, in AgentHeader order.
func (r AgentRow) Record() []string {
	return []string{
		strconv.FormatInt(r.RunID, 10),
		strconv.FormatInt(r.AgentID, 10),
		r.Type,
		strconv.FormatBool(r.LabelIsIllegal),
		r.LabelIllegalType,
		strconv.FormatInt(r.GroupID, 10),
		formatFloat(r.CashFinal),
		strconv.FormatInt(r.PositionFinal, 10),
		formatFloat(r.EquityFinal),
		strconv.Itoa(r.NumTrades),
		formatFloat(r.TotalVolume),
		formatFloat(r.NetVolume),
		formatFloat(r.AvgTradeSize),
		formatFloat(r.BuyVolume),
		formatFloat(r.SellVolume),
		formatFloat(r.PreEventVolume),
		formatFloat(r.PostEventVolume),
		formatFloat(r.AlignedPreEventVolume),
	}
}

// ExtractAgentFeatures computes one row per agent in construction
// order. Positions are marked at the final mid price, falling back to
// 100 when the run produced no mids. Pre- and post-event volumes split
// at the event tick; aligned pre-event volume keeps only the volume
// signed in the jump direction, the core insider signature.
func ExtractAgentFeatures(res *sim.Result) []AgentRow {
	byAgent := make(map[int64][]tradeEntry)
	for _, e := range expandTrades(res.Trades) {
		byAgent[e.AgentID] = append(byAgent[e.AgentID], e)
	}

	var (
		eventTime int64
		direction int
	)
	if res.Config.HasEvent && res.Config.EventTime > 0 {
		eventTime = res.Config.EventTime
		direction = res.Config.JumpDirection
	}

	lastMid := 100.0
	if len(res.Mids) > 0 {
		lastMid = res.Mids[len(res.Mids)-1]
	}

	rows := make([]AgentRow, 0, len(res.Agents))
	for _, a := range res.Agents {
		entries := byAgent[a.ID()]
		meta := a.Meta()
		ledger := a.Ledger()

		row := AgentRow{
			RunID:            res.Config.RunID,
			AgentID:          a.ID(),
			Type:             meta.Type,
			LabelIsIllegal:   meta.IsIllegal,
			LabelIllegalType: meta.IllegalType,
			GroupID:          meta.GroupID,
			CashFinal:        ledger.Cash,
			PositionFinal:    ledger.Position,
			EquityFinal:      ledger.Equity(lastMid),
			NumTrades:        len(entries),
		}

		for _, e := range entries {
			row.TotalVolume += e.Quantity
			if e.Side == domain.SideBuy {
				row.NetVolume += e.Quantity
				row.BuyVolume += e.Quantity
			} else {
				row.NetVolume -= e.Quantity
				row.SellVolume += e.Quantity
			}

			if eventTime == 0 {
				continue
			}
			if e.Time >= eventTime {
				row.PostEventVolume += e.Quantity
				continue
			}
			row.PreEventVolume += e.Quantity
			if direction != 0 {
				signed := e.Quantity
				if e.Side == domain.SideSell {
					signed = -signed
				}
				if direction < 0 {
					signed = -signed
				}
				if signed > 0 {
					row.AlignedPreEventVolume += signed
				}
			}
		}
		if row.NumTrades > 0 {
			row.AvgTradeSize = row.TotalVolume / float64(row.NumTrades)
		}

		rows = append(rows, row)
	}
	return rows
}
