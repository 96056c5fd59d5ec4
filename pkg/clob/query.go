package clob

import (
	"github.com/duskbook/clob/pkg/account"
	"github.com/duskbook/clob/pkg/critbit"
)

// GetMarketPrice returns the best bid and best ask, with ok flags
// reporting whether either side currently has resting orders.
func (p *Pool[Base, Quote]) GetMarketPrice() (bid uint64, bidOK bool, ask uint64, askOK bool) {
	if !p.Bids.IsEmpty() {
		bid, _ = p.Bids.Max()
		bidOK = true
	}
	if !p.Asks.IsEmpty() {
		ask, _ = p.Asks.Min()
		askOK = true
	}
	return
}

// GetLevel2BookStatusBidSide returns bid prices and depths (summed open
// quantity at each price) in [priceLow, priceHigh], descending.
func (p *Pool[Base, Quote]) GetLevel2BookStatusBidSide(priceLow, priceHigh uint64) (prices, depths []uint64) {
	return level2(p.Bids, priceLow, priceHigh, false)
}

// GetLevel2BookStatusAskSide returns ask prices and depths in
// [priceLow, priceHigh], ascending.
func (p *Pool[Base, Quote]) GetLevel2BookStatusAskSide(priceLow, priceHigh uint64) (prices, depths []uint64) {
	return level2(p.Asks, priceLow, priceHigh, true)
}

// level2 walks tree ascending, collecting prices and summed open
// quantity within [priceLow, priceHigh], then reverses the result when
// the caller wants the descending (bid-side) view.
func level2(tree *critbit.Tree[*TickLevel], priceLow, priceHigh uint64, ascending bool) ([]uint64, []uint64) {
	var prices, depths []uint64
	if tree.IsEmpty() {
		return prices, depths
	}

	price, idx := tree.Min()
	for {
		if price >= priceLow && price <= priceHigh {
			lvl := *tree.Value(idx)
			var depth uint64
			for _, orderID := range lvl.OpenOrders.Keys() {
				o, _ := lvl.OpenOrders.Get(orderID)
				depth += o.Quantity
			}
			prices = append(prices, price)
			depths = append(depths, depth)
		}
		if price > priceHigh {
			break
		}
		next, nextIdx := tree.Next(price)
		if next == 0 && nextIdx == critbit.Sentinel {
			break
		}
		price, idx = next, nextIdx
	}

	if !ascending {
		for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
			prices[i], prices[j] = prices[j], prices[i]
			depths[i], depths[j] = depths[j], depths[i]
		}
	}
	return prices, depths
}

// GetOrderStatus reports a resting order's current remaining quantity
// and price, if it belongs to owner.
func (p *Pool[Base, Quote]) GetOrderStatus(orderID uint64, owner account.OwnerId) (*Order, bool) {
	price, exists := p.ownerOrders(owner).Get(orderID)
	if !exists {
		return nil, false
	}
	tree := p.Asks
	if orderID < MinAskOrderID {
		tree = p.Bids
	}
	tickIdx, ok := tree.Find(price)
	if !ok {
		return nil, false
	}
	lvl := *tree.Value(tickIdx)
	order, ok := lvl.OpenOrders.Get(orderID)
	if !ok {
		return nil, false
	}
	return order, true
}

// ListOpenOrders returns every resting order_id owned by owner, in
// insertion order.
func (p *Pool[Base, Quote]) ListOpenOrders(owner account.OwnerId) []uint64 {
	return p.ownerOrders(owner).Keys()
}

// AccountBalanceOf is the external-surface name for (available, locked)
// across both assets — see Pool.AccountBalance for the underlying
// implementation.
func (p *Pool[Base, Quote]) AccountBalanceOf(owner account.OwnerId) (baseAvail, baseLocked, quoteAvail, quoteLocked uint64) {
	return p.AccountBalance(owner)
}
