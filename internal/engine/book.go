package engine

import (
	"github.com/google/btree"

	"marketsim/internal/domain"
)

// BookEntry represents a single order resting on the book.
type BookEntry struct {
	Price   float64
	OrderID int64
	Order   *domain.Order
}

// PriceLevel represents an aggregated price level in the order book.
type PriceLevel struct {
	Price         float64
	TotalQuantity int64
	OrderCount    int
}

// bidLess defines ordering for the bid side: price descending, then
// order id ascending. Ids are assigned in arrival order, so Min()
// returns the best bid (highest price, earliest arrival).
func bidLess(a, b BookEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.OrderID < b.OrderID
}

// askLess defines ordering for the ask side: price ascending, then
// order id ascending. Min() returns the best ask (lowest price,
// earliest arrival).
func askLess(a, b BookEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.OrderID < b.OrderID
}

// Book maintains the bid and ask sides for a single instrument using
// B-trees with a secondary index for O(log n) removal by order id.
// A Book is owned by exactly one run and is mutated only by that run's
// matching engine; runs executing in parallel must not share one.
type Book struct {
	bids  *btree.BTreeG[BookEntry]
	asks  *btree.BTreeG[BookEntry]
	index map[int64]BookEntry // order id → entry
}

// NewBook creates an empty book.
func NewBook() *Book {
	const degree = 32
	return &Book{
		bids:  btree.NewG[BookEntry](degree, bidLess),
		asks:  btree.NewG[BookEntry](degree, askLess),
		index: make(map[int64]BookEntry),
	}
}

// Insert adds a resting limit order to its side of the book. Same-price
// orders queue behind earlier arrivals because ids increase with
// arrival order.
func (b *Book) Insert(order *domain.Order) {
	entry := BookEntry{Price: order.Price, OrderID: order.ID, Order: order}
	if order.Side == domain.SideBuy {
		b.bids.ReplaceOrInsert(entry)
	} else {
		b.asks.ReplaceOrInsert(entry)
	}
	b.index[entry.OrderID] = entry
}

// Remove deletes an order from the book by order id using the
// secondary index. No-op when the id is not resting.
func (b *Book) Remove(orderID int64) {
	entry, ok := b.index[orderID]
	if !ok {
		return
	}
	delete(b.index, orderID)
	// Delete is a no-op on the side the entry isn't on.
	b.bids.Delete(entry)
	b.asks.Delete(entry)
}

// RemoveAgentOrders deletes every resting order belonging to the agent
// from both sides. No-op when the agent has none resting.
func (b *Book) RemoveAgentOrders(agentID int64) {
	var ids []int64
	for id, entry := range b.index {
		if entry.Order.AgentID == agentID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		b.Remove(id)
	}
}

// BestBid returns the highest-priority bid (highest price, earliest arrival).
func (b *Book) BestBid() (BookEntry, bool) {
	return b.bids.Min()
}

// BestAsk returns the highest-priority ask (lowest price, earliest arrival).
func (b *Book) BestAsk() (BookEntry, bool) {
	return b.asks.Min()
}

// Bids returns snapshots of the resting bids in priority order.
func (b *Book) Bids() []domain.Order {
	return snapshot(b.bids)
}

// Asks returns snapshots of the resting asks in priority order.
func (b *Book) Asks() []domain.Order {
	return snapshot(b.asks)
}

func snapshot(tree *btree.BTreeG[BookEntry]) []domain.Order {
	orders := make([]domain.Order, 0, tree.Len())
	tree.Ascend(func(entry BookEntry) bool {
		orders = append(orders, *entry.Order)
		return true
	})
	return orders
}

// TopBids returns up to n aggregated price levels from the bid side,
// ordered by price descending.
func (b *Book) TopBids(n int) []PriceLevel {
	return topLevels(b.bids, n)
}

// TopAsks returns up to n aggregated price levels from the ask side,
// ordered by price ascending.
func (b *Book) TopAsks(n int) []PriceLevel {
	return topLevels(b.asks, n)
}

// topLevels iterates the B-tree in order and aggregates entries into
// at most n price levels.
func topLevels(tree *btree.BTreeG[BookEntry], n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	tree.Ascend(func(entry BookEntry) bool {
		if len(levels) > 0 && levels[len(levels)-1].Price == entry.Price {
			levels[len(levels)-1].TotalQuantity += entry.Order.Quantity
			levels[len(levels)-1].OrderCount++
			return true
		}
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:         entry.Price,
			TotalQuantity: entry.Order.Quantity,
			OrderCount:    1,
		})
		return true
	})
	return levels
}

// BidCount returns the number of individual bid orders on the book.
func (b *Book) BidCount() int {
	return b.bids.Len()
}

// AskCount returns the number of individual ask orders on the book.
func (b *Book) AskCount() int {
	return b.asks.Len()
}
