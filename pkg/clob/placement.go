package clob

import (
	"github.com/duskbook/clob/pkg/account"
	"github.com/duskbook/clob/pkg/fixedpoint"
)

// injectLimit locks the maker's margin, assigns an order id from the
// appropriate side counter, creates (or reuses) the tick level at
// price, appends the order to its FIFO list, and records it in the
// owner's open-order index.
func (p *Pool[Base, Quote]) injectLimit(isBid bool, price, originalQty, remainingQty, clientOrderID, expireTimestamp uint64, smp SelfMatchingPrevention, cap *account.AccountCap) (*Order, error) {
	var orderID uint64
	var lockedQuote uint64
	if isBid {
		lockedQuote = fixedpoint.Mul(remainingQty, price)
		if err := p.QuoteCustodian.Lock(cap, lockedQuote); err != nil {
			return nil, ErrInsufficientQuoteCoin
		}
		orderID = p.nextBidOrderID
		p.nextBidOrderID++
	} else {
		if err := p.BaseCustodian.Lock(cap, remainingQty); err != nil {
			return nil, ErrInsufficientBaseCoin
		}
		orderID = p.nextAskOrderID
		p.nextAskOrderID++
	}

	order := &Order{
		OrderID:                orderID,
		ClientOrderID:          clientOrderID,
		Price:                  price,
		OriginalQuantity:       originalQty,
		Quantity:               remainingQty,
		IsBid:                  isBid,
		Owner:                  cap.Owner(),
		ExpireTimestamp:        expireTimestamp,
		SelfMatchingPrevention: smp,
		LockedQuote:            lockedQuote,
	}

	if err := order.validate(p.TickSize, p.LotSize); err != nil {
		if isBid {
			p.QuoteCustodian.Unlock(cap.Owner(), lockedQuote)
		} else {
			p.BaseCustodian.Unlock(cap.Owner(), remainingQty)
		}
		return nil, err
	}

	tree := p.Asks
	if isBid {
		tree = p.Bids
	}
	_, lvl := findOrCreateTickLevel(tree, price)
	lvl.OpenOrders.PushBack(orderID, order)
	p.ownerOrders(cap.Owner()).PushBack(orderID, price)

	p.sink.OrderPlaced(OrderPlaced{
		OrderID:         orderID,
		ClientOrderID:   clientOrderID,
		Price:           price,
		Quantity:        remainingQty,
		IsBid:           isBid,
		Owner:           cap.Owner(),
		ExpireTimestamp: expireTimestamp,
	})
	recordOrderPlaced(isBid)
	return order, nil
}

// PlaceMarketOrder fills as much of quantity as the opposite book
// allows at any price, returning unfilled balance to the caller rather
// than resting it.
func (p *Pool[Base, Quote]) PlaceMarketOrder(cap *account.AccountCap, isBid bool, quantity, now uint64) (baseFilled, quoteFilled uint64, err error) {
	if quantity == 0 || quantity < p.LotSize || quantity%p.LotSize != 0 {
		return 0, 0, ErrInvalidQuantity
	}

	if isBid {
		avail, _ := p.QuoteCustodian.AccountBalance(cap.Owner())
		budget, derr := p.QuoteCustodian.DecreaseAvailable(cap, avail)
		if derr != nil {
			return 0, 0, ErrInsufficientQuoteCoin
		}
		filledBase, quoteSpent, _ := p.matchBid(cap.Owner(), quantity, MaxPrice, budget, now, false)
		leftover := budget - quoteSpent
		if leftover > 0 {
			p.QuoteCustodian.IncreaseAvailable(cap.Owner(), leftover)
		}
		p.BaseCustodian.IncreaseAvailable(cap.Owner(), filledBase)
		return filledBase, quoteSpent, nil
	}

	base, derr := p.BaseCustodian.DecreaseAvailable(cap, quantity)
	if derr != nil {
		return 0, 0, ErrInsufficientBaseCoin
	}
	filledBase, quoteReceived, _ := p.matchAsk(cap.Owner(), MinPrice, base, now, false)
	leftoverBase := base - filledBase
	if leftoverBase > 0 {
		p.BaseCustodian.IncreaseAvailable(cap.Owner(), leftoverBase)
	}
	if quoteReceived > 0 {
		p.QuoteCustodian.IncreaseAvailable(cap.Owner(), quoteReceived)
	}
	return filledBase, quoteReceived, nil
}

// PlaceLimitOrder executes the full place_limit contract: pull the
// caller's backing balance, match against the opposite side up to
// price, then dispatch on restriction to decide whether (and how much)
// of the residual rests as a new maker order.
func (p *Pool[Base, Quote]) PlaceLimitOrder(cap *account.AccountCap, clientOrderID, price, quantity uint64, smp SelfMatchingPrevention, isBid bool, expireTimestamp uint64, restriction Restriction, now uint64) (baseFilled, quoteFilled uint64, injected bool, orderID uint64, metadata []MatchedOrderMetadata, err error) {
	if price == 0 || price%p.TickSize != 0 {
		return 0, 0, false, 0, nil, ErrInvalidTickPrice
	}
	if quantity == 0 || quantity < p.LotSize || quantity%p.LotSize != 0 {
		return 0, 0, false, 0, nil, ErrInvalidQuantity
	}
	if expireTimestamp <= now {
		return 0, 0, false, 0, nil, ErrInvalidExpireTimestamp
	}
	if smp != CancelOldest {
		return 0, 0, false, 0, nil, ErrInvalidSelfMatchingPreventionArg
	}
	if restriction > PostOrAbort {
		return 0, 0, false, 0, nil, ErrInvalidRestriction
	}
	wantMetadata := true

	if isBid {
		if restriction == FillOrKill && !p.wouldFullyFill(treeOf(p.Asks), cap.Owner(), price, now, quantity, true) {
			return 0, 0, false, 0, nil, ErrOrderCannotBeFullyFilled
		}

		avail, _ := p.QuoteCustodian.AccountBalance(cap.Owner())
		working, derr := p.QuoteCustodian.DecreaseAvailable(cap, avail)
		if derr != nil {
			return 0, 0, false, 0, nil, ErrInsufficientQuoteCoin
		}
		filledBase, quoteSpent, md := p.matchBid(cap.Owner(), quantity, price, working, now, wantMetadata)
		leftoverQuote := working - quoteSpent

		if leftoverQuote > 0 {
			p.QuoteCustodian.IncreaseAvailable(cap.Owner(), leftoverQuote)
		}
		p.BaseCustodian.IncreaseAvailable(cap.Owner(), filledBase)

		switch restriction {
		case ImmediateOrCancel:
			return filledBase, quoteSpent, false, 0, md, nil
		case PostOrAbort:
			if filledBase != 0 {
				return 0, 0, false, 0, nil, ErrOrderCannotBeFullyPassive
			}
			order, ierr := p.injectLimit(true, price, quantity, quantity, clientOrderID, expireTimestamp, smp, cap)
			if ierr != nil {
				return 0, 0, false, 0, nil, ierr
			}
			return filledBase, quoteSpent, true, order.OrderID, md, nil
		default: // NoRestriction
			if quantity > filledBase {
				order, ierr := p.injectLimit(true, price, quantity, quantity-filledBase, clientOrderID, expireTimestamp, smp, cap)
				if ierr != nil {
					return 0, 0, false, 0, nil, ierr
				}
				return filledBase, quoteSpent, true, order.OrderID, md, nil
			}
			return filledBase, quoteSpent, false, 0, md, nil
		}
	}

	if restriction == FillOrKill && !p.wouldFullyFill(treeOf(p.Bids), cap.Owner(), price, now, quantity, false) {
		return 0, 0, false, 0, nil, ErrOrderCannotBeFullyFilled
	}

	working, derr := p.BaseCustodian.DecreaseAvailable(cap, quantity)
	if derr != nil {
		return 0, 0, false, 0, nil, ErrInsufficientBaseCoin
	}
	filledBase, quoteReceived, md := p.matchAsk(cap.Owner(), price, working, now, wantMetadata)
	leftoverBase := working - filledBase

	if leftoverBase > 0 {
		p.BaseCustodian.IncreaseAvailable(cap.Owner(), leftoverBase)
	}
	if quoteReceived > 0 {
		p.QuoteCustodian.IncreaseAvailable(cap.Owner(), quoteReceived)
	}

	switch restriction {
	case ImmediateOrCancel:
		return filledBase, quoteReceived, false, 0, md, nil
	case PostOrAbort:
		if filledBase != 0 {
			return 0, 0, false, 0, nil, ErrOrderCannotBeFullyPassive
		}
		order, ierr := p.injectLimit(false, price, quantity, quantity, clientOrderID, expireTimestamp, smp, cap)
		if ierr != nil {
			return 0, 0, false, 0, nil, ierr
		}
		return filledBase, quoteReceived, true, order.OrderID, md, nil
	default:
		if quantity > filledBase {
			order, ierr := p.injectLimit(false, price, quantity, quantity-filledBase, clientOrderID, expireTimestamp, smp, cap)
			if ierr != nil {
				return 0, 0, false, 0, nil, ierr
			}
			return filledBase, quoteReceived, true, order.OrderID, md, nil
		}
		return filledBase, quoteReceived, false, 0, md, nil
	}
}

// SwapExactQuoteForBase is a thin wrapper over the quote-bounded
// matching path, for a taker who wants to spend an exact quote amount
// rather than target an exact base quantity.
func (p *Pool[Base, Quote]) SwapExactQuoteForBase(cap *account.AccountCap, quantity, now uint64) (baseFilled, quoteSpent uint64, err error) {
	working, derr := p.QuoteCustodian.DecreaseAvailable(cap, quantity)
	if derr != nil {
		return 0, 0, ErrInsufficientQuoteCoin
	}
	filledBase, spent, _ := p.matchBidByQuote(cap.Owner(), MaxPrice, working, now, false)
	leftover := working - spent
	if leftover > 0 {
		p.QuoteCustodian.IncreaseAvailable(cap.Owner(), leftover)
	}
	p.BaseCustodian.IncreaseAvailable(cap.Owner(), filledBase)
	return filledBase, spent, nil
}

// SwapExactBaseForQuote is a thin wrapper over the base-bounded
// ask-matching path.
func (p *Pool[Base, Quote]) SwapExactBaseForQuote(cap *account.AccountCap, quantity, now uint64) (baseFilled, quoteReceived uint64, err error) {
	return p.PlaceMarketOrder(cap, false, quantity, now)
}
