package clob

import (
	"github.com/duskbook/clob/pkg/account"
)

// cancelOne removes order orderID from owner's open-order index and its
// tick level, and unlocks its remaining margin. The per-owner index is
// the sole source of truth for ownership: an order id absent from
// owner's own index is reported as unauthorized, since this engine has
// no other way to distinguish "doesn't exist" from "belongs to someone
// else" without a second, global index.
func (p *Pool[Base, Quote]) cancelOne(orderID uint64, owner account.OwnerId) (*Order, error) {
	idx, exists := p.ownerOrders(owner).Get(orderID)
	if !exists {
		return nil, ErrUnauthorizedCancel
	}
	price := idx

	tree := p.Asks
	if orderID < MinAskOrderID {
		tree = p.Bids
	}
	tickIdx, ok := tree.Find(price)
	if !ok {
		return nil, ErrInvalidOrderID
	}
	lvl := *tree.Value(tickIdx)
	order, ok := lvl.OpenOrders.Get(orderID)
	if !ok {
		return nil, ErrInvalidOrderID
	}

	if order.IsBid {
		// Unlock the order's own remaining LockedQuote (see matchAsk's
		// rounding-dust reconciliation) rather than recomputing it from
		// Quantity*Price, which can drift from the true locked amount by
		// a unit or two after a prior partial fill.
		p.QuoteCustodian.Unlock(order.Owner, order.LockedQuote)
	} else {
		p.BaseCustodian.Unlock(order.Owner, order.Quantity)
	}

	lvl.OpenOrders.Remove(orderID)
	p.ownerOrders(owner).Remove(orderID)
	destroyTickLevelIfEmpty(tree, tickIdx)

	return order, nil
}

// CancelOrder cancels a single resting order, authenticated by cap.
func (p *Pool[Base, Quote]) CancelOrder(orderID uint64, cap *account.AccountCap) error {
	order, err := p.cancelOne(orderID, cap.Owner())
	if err != nil {
		return err
	}
	p.sink.OrderCanceled(OrderCanceled{
		OrderID: order.OrderID, Owner: order.Owner, Price: order.Price, Quantity: order.Quantity, IsBid: order.IsBid,
	})
	return nil
}

// CancelAllOrders cancels every resting order owned by cap, newest
// first (matching the per-owner index's insertion-order guarantee),
// and emits a single batched AllOrdersCanceled event.
func (p *Pool[Base, Quote]) CancelAllOrders(cap *account.AccountCap) error {
	owner := cap.Owner()
	list := p.ownerOrders(owner)
	if list.IsEmpty() {
		return ErrInvalidUser
	}

	var components []CanceledOrderComponent
	orderID, _, ok := list.Back()
	for ok {
		order, err := p.cancelOne(orderID, owner)
		if err != nil {
			return err
		}
		components = append(components, CanceledOrderComponent{
			OrderID: order.OrderID, Owner: order.Owner, Price: order.Price, Quantity: order.Quantity, IsBid: order.IsBid,
		})
		orderID, _, ok = list.Back()
	}

	p.sink.AllOrdersCanceled(AllOrdersCanceled{Components: components})
	return nil
}

// BatchCancelOrder cancels a caller-supplied list of order ids. Any
// invalid id aborts the whole call — no partial cancellation.
func (p *Pool[Base, Quote]) BatchCancelOrder(orderIDs []uint64, cap *account.AccountCap) error {
	owner := cap.Owner()
	// Check every id before canceling any, so an unknown id (or one
	// listed twice) leaves all of the caller's orders in place.
	seen := make(map[uint64]bool, len(orderIDs))
	for _, id := range orderIDs {
		if _, ok := p.ownerOrders(owner).Get(id); !ok || seen[id] {
			return ErrUnauthorizedCancel
		}
		seen[id] = true
	}
	var components []CanceledOrderComponent
	for _, id := range orderIDs {
		order, err := p.cancelOne(id, owner)
		if err != nil {
			return err
		}
		components = append(components, CanceledOrderComponent{
			OrderID: order.OrderID, Owner: order.Owner, Price: order.Price, Quantity: order.Quantity, IsBid: order.IsBid,
		})
	}
	p.sink.AllOrdersCanceled(AllOrdersCanceled{Components: components})
	return nil
}

// CleanUpExpiredOrders removes every (order_id, owner) pair whose
// expiry has passed. Anyone may call this — it is not gated by a cap.
// Mismatched order_id/owner pairs (already canceled, or never matching
// that owner) are silently skipped; an entry whose expiry has not yet
// passed aborts the whole call.
func (p *Pool[Base, Quote]) CleanUpExpiredOrders(now uint64, orderIDs []uint64, owners []account.OwnerId) error {
	// Check every entry before removing any, so a not-yet-expired order
	// leaves the book untouched.
	for i, id := range orderIDs {
		if order, ok := p.GetOrderStatus(id, owners[i]); ok && order.Owner == owners[i] && order.ExpireTimestamp >= now {
			return ErrInvalidExpireTimestamp
		}
	}
	for i, id := range orderIDs {
		owner := owners[i]
		price, exists := p.ownerOrders(owner).Get(id)
		if !exists {
			continue
		}

		tree := p.Asks
		if id < MinAskOrderID {
			tree = p.Bids
		}
		tickIdx, ok := tree.Find(price)
		if !ok {
			continue
		}
		lvl := *tree.Value(tickIdx)
		order, ok := lvl.OpenOrders.Get(id)
		if !ok || order.Owner != owner {
			continue
		}
		if order.ExpireTimestamp >= now {
			return ErrInvalidExpireTimestamp
		}

		if order.IsBid {
			p.QuoteCustodian.Unlock(order.Owner, order.LockedQuote)
		} else {
			p.BaseCustodian.Unlock(order.Owner, order.Quantity)
		}
		lvl.OpenOrders.Remove(id)
		p.ownerOrders(owner).Remove(id)
		destroyTickLevelIfEmpty(tree, tickIdx)
	}
	return nil
}
