package agent

import (
	"fmt"
	"math"
	"math/rand"

	"marketsim/internal/domain"
)

// Trading modes a PropTrader can run.
const (
	ModeMomentum      = "momentum"
	ModeMeanReversion = "mean_reversion"
)

// PropTraderParams configures a PropTrader.
type PropTraderParams struct {
	Mode        string
	PTrade      float64
	MaxQuantity int64
}

// PropTrader trades the change in mid price since its previous step,
// chasing it in momentum mode and fading it in mean-reversion mode.
// Changes below a small epsilon are treated as no signal.
type PropTrader struct {
	base
	params  PropTraderParams
	lastMid float64
	hasLast bool
}

// NewPropTrader rejects unknown trading modes up front so a
// misconfigured strategy fails before the run starts rather than on
// its first step.
func NewPropTrader(id int64, rng *rand.Rand, params PropTraderParams) (*PropTrader, error) {
	if params.Mode != ModeMomentum && params.Mode != ModeMeanReversion {
		return nil, fmt.Errorf("prop trader %d: mode %q: %w", id, params.Mode, domain.ErrUnknownTradeMode)
	}
	return &PropTrader{
		base:   base{id: id, rng: rng, meta: Meta{Type: TypeProp}},
		params: params,
	}, nil
}

func (p *PropTrader) Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest {
	if !p.hasLast {
		p.lastMid = mid
		p.hasLast = true
		return nil
	}

	if p.rng.Float64() > p.params.PTrade {
		p.lastMid = mid
		return nil
	}

	change := mid - p.lastMid
	if math.Abs(change) < 1e-6 {
		p.lastMid = mid
		return nil
	}

	var side domain.Side
	if p.params.Mode == ModeMomentum {
		side = domain.SideSell
		if change > 0 {
			side = domain.SideBuy
		}
	} else {
		side = domain.SideBuy
		if change > 0 {
			side = domain.SideSell
		}
	}

	quantity := 1 + p.rng.Int63n(p.params.MaxQuantity)
	isMarket := p.rng.Float64() < 0.6

	req := domain.OrderRequest{
		AgentID:  p.id,
		Side:     side,
		Quantity: quantity,
		IsMarket: isMarket,
	}
	if !isMarket {
		if side == domain.SideBuy {
			req.Price = domain.RoundPrice(mid * 0.999)
		} else {
			req.Price = domain.RoundPrice(mid * 1.001)
		}
	}

	p.lastMid = mid
	return []domain.OrderRequest{req}
}
