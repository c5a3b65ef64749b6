package agent

import (
	"math"
	"math/rand"

	"marketsim/internal/domain"
)

// noiseLimitSpread scales the gaussian offset applied to noise trader
// limit prices.
const noiseLimitSpread = 0.002

// NoiseTraderParams configures a NoiseTrader.
type NoiseTraderParams struct {
	PTrade        float64
	PMarket       float64
	MaxQuantity   int64
	DirectionBias float64
}

// NoiseTrader trades at random. Each tick it may flip a coin biased by
// DirectionBias to pick a side, then either takes liquidity with a
// market order or posts a limit near the mid.
type NoiseTrader struct {
	base
	params NoiseTraderParams
}

func NewNoiseTrader(id int64, rng *rand.Rand, params NoiseTraderParams) *NoiseTrader {
	return &NoiseTrader{
		base:   base{id: id, rng: rng, meta: Meta{Type: TypeNoise}},
		params: params,
	}
}

func (n *NoiseTrader) Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest {
	if n.rng.Float64() > n.params.PTrade {
		return nil
	}

	side := domain.SideSell
	if n.rng.Float64()-0.5+n.params.DirectionBias >= 0 {
		side = domain.SideBuy
	}
	quantity := 1 + n.rng.Int63n(n.params.MaxQuantity)
	isMarket := n.rng.Float64() < n.params.PMarket

	req := domain.OrderRequest{
		AgentID:  n.id,
		Side:     side,
		Quantity: quantity,
		IsMarket: isMarket,
	}
	if !isMarket {
		offset := math.Abs(n.rng.NormFloat64() * noiseLimitSpread)
		if side == domain.SideBuy {
			req.Price = domain.RoundPrice(mid * (1 - offset))
		} else {
			req.Price = domain.RoundPrice(mid * (1 + offset))
		}
	}
	return []domain.OrderRequest{req}
}
