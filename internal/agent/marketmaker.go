package agent

import (
	"math/rand"

	"marketsim/internal/domain"
)

// MarketMakerParams configures a MarketMaker.
type MarketMakerParams struct {
	Spread       float64
	Size         int64
	MaxInventory int64
}

// MarketMaker quotes both sides of the book around the mid price. Its
// quotes skew against accumulated inventory, and the side that would
// push the position past MaxInventory is withheld.
type MarketMaker struct {
	base
	params MarketMakerParams
}

func NewMarketMaker(id int64, rng *rand.Rand, params MarketMakerParams) *MarketMaker {
	return &MarketMaker{
		base:   base{id: id, rng: rng, meta: Meta{Type: TypeMarketMaker}},
		params: params,
	}
}

// Step refreshes the maker's quotes. Stale quotes from earlier ticks
// are cancelled first, then a fresh bid and ask are placed around mid
// with an inventory skew of 0.001 per held unit.
func (m *MarketMaker) Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest {
	book.CancelAgentOrders(m.id)

	skew := 0.001 * float64(m.ledger.Position)
	bidPrice := domain.RoundPrice(mid * (1 - m.params.Spread - skew))
	askPrice := domain.RoundPrice(mid * (1 + m.params.Spread - skew))

	var requests []domain.OrderRequest
	if m.ledger.Position < m.params.MaxInventory {
		requests = append(requests, domain.OrderRequest{
			AgentID:  m.id,
			Side:     domain.SideBuy,
			Price:    bidPrice,
			Quantity: m.params.Size,
		})
	}
	if m.ledger.Position > -m.params.MaxInventory {
		requests = append(requests, domain.OrderRequest{
			AgentID:  m.id,
			Side:     domain.SideSell,
			Price:    askPrice,
			Quantity: m.params.Size,
		})
	}
	return requests
}
