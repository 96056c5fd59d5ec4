// Package custodian implements the per-owner available/locked balance
// ledger used by the pool for both its base and quote assets. Asset is
// a phantom type parameter — it carries no data, it only keeps a base
// custodian and a quote custodian from being mixed up at compile time,
// the same role the teacher's Account type plays for a single asset
// (USDCBalance/LockedCollateral) generalized to an arbitrary asset.
package custodian

import (
	"errors"

	"github.com/duskbook/clob/pkg/account"
)

// ErrInsufficientFunds is returned by Withdraw/Lock/DecreaseAvailable
// when available balance cannot cover the requested quantity.
var ErrInsufficientFunds = errors.New("custodian: insufficient available funds")

type balance struct {
	available uint64
	locked    uint64
}

// Custodian holds every owner's available/locked balance for one asset.
type Custodian[Asset any] struct {
	balances map[account.OwnerId]*balance
}

// New returns an empty custodian.
func New[Asset any]() *Custodian[Asset] {
	return &Custodian[Asset]{balances: make(map[account.OwnerId]*balance)}
}

func (c *Custodian[Asset]) entry(owner account.OwnerId) *balance {
	b, ok := c.balances[owner]
	if !ok {
		b = &balance{}
		c.balances[owner] = b
	}
	return b
}

// Deposit moves externally-supplied funds into owner's available
// balance.
func (c *Custodian[Asset]) Deposit(owner account.OwnerId, qty uint64) {
	c.entry(owner).available += qty
}

// Withdraw splits qty out of cap.Owner()'s available balance.
func (c *Custodian[Asset]) Withdraw(cap *account.AccountCap, qty uint64) (uint64, error) {
	b := c.entry(cap.Owner())
	if b.available < qty {
		return 0, ErrInsufficientFunds
	}
	b.available -= qty
	return qty, nil
}

// Lock moves qty from cap.Owner()'s available balance into locked.
func (c *Custodian[Asset]) Lock(cap *account.AccountCap, qty uint64) error {
	b := c.entry(cap.Owner())
	if b.available < qty {
		return ErrInsufficientFunds
	}
	b.available -= qty
	b.locked += qty
	return nil
}

// Unlock moves qty from owner's locked balance back to available.
// Unauthenticated: only the matching engine calls this, on behalf of an
// order it already owns. A locked balance smaller than qty is a caller
// bug, not a user-facing error — it panics rather than silently
// clamping, the same posture fixedpoint.UnsafeDiv takes on a zero
// divisor.
func (c *Custodian[Asset]) Unlock(owner account.OwnerId, qty uint64) {
	b := c.entry(owner)
	if b.locked < qty {
		panic("custodian: unlock exceeds locked balance")
	}
	b.locked -= qty
	b.available += qty
}

// IncreaseAvailable credits owner's available balance directly — used
// when settlement pays out proceeds the owner never locked in the first
// place (a maker's fill proceeds, a taker's leftover balance).
func (c *Custodian[Asset]) IncreaseAvailable(owner account.OwnerId, qty uint64) {
	c.entry(owner).available += qty
}

// DecreaseLocked debits owner's locked balance directly and returns the
// amount removed — the matching engine's own internal transfer
// primitive, not gated by a capability because it never exposes funds
// to a caller; it is followed immediately by a corresponding credit
// elsewhere in the same settlement.
func (c *Custodian[Asset]) DecreaseLocked(owner account.OwnerId, qty uint64) uint64 {
	b := c.entry(owner)
	if b.locked < qty {
		panic("custodian: decrease_locked exceeds locked balance")
	}
	b.locked -= qty
	return qty
}

// DecreaseAvailable debits cap.Owner()'s available balance and returns
// the amount removed, failing if insufficient.
func (c *Custodian[Asset]) DecreaseAvailable(cap *account.AccountCap, qty uint64) (uint64, error) {
	b := c.entry(cap.Owner())
	if b.available < qty {
		return 0, ErrInsufficientFunds
	}
	b.available -= qty
	return qty, nil
}

// IncreaseLocked credits cap.Owner()'s locked balance directly, without
// debiting available. Order injection does not use it; it locks margin
// with Lock.
func (c *Custodian[Asset]) IncreaseLocked(cap *account.AccountCap, qty uint64) {
	c.entry(cap.Owner()).locked += qty
}

// AccountBalance returns (available, locked) for owner; a missing owner
// yields (0, 0).
func (c *Custodian[Asset]) AccountBalance(owner account.OwnerId) (available, locked uint64) {
	b, ok := c.balances[owner]
	if !ok {
		return 0, 0
	}
	return b.available, b.locked
}
