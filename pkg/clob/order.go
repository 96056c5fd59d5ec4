package clob

import "github.com/duskbook/clob/pkg/account"

// Order is a maker order resting in (or about to enter) a Pool's bid or
// ask tree.
type Order struct {
	OrderID                uint64
	ClientOrderID          uint64
	Price                  uint64
	OriginalQuantity       uint64
	Quantity               uint64 // remaining
	IsBid                  bool
	Owner                  account.OwnerId
	ExpireTimestamp        uint64 // ms
	SelfMatchingPrevention SelfMatchingPrevention
	// LockedQuote is the bid order's own remaining locked quote balance.
	// matchAsk reconciles against this directly on the order's final fill
	// instead of recomputing a per-fill ceiling, so fixed-point rounding
	// dust accumulated across several partial fills never overruns the
	// order's actual locked balance. Unused for ask orders.
	LockedQuote uint64
}

// validate checks the invariants every Order must hold for the given
// pool's tick/lot sizes: quantity <= original_quantity, price a
// multiple of tick_size, original_quantity a multiple of lot_size, and
// the order id's side bit consistent with IsBid.
func (o *Order) validate(tickSize, lotSize uint64) error {
	if o.Quantity > o.OriginalQuantity {
		return ErrInvalidQuantity
	}
	if o.Price%tickSize != 0 {
		return ErrInvalidTickPrice
	}
	if o.OriginalQuantity%lotSize != 0 {
		return ErrInvalidQuantity
	}
	if (o.OrderID < MinAskOrderID) != o.IsBid {
		return ErrInvalidOrderID
	}
	return nil
}

// Clone returns a value copy of o — used by callers (and tests of
// testable property 6) that need to snapshot an order's state before a
// mutating operation.
func (o Order) Clone() Order {
	return o
}
