package clob

import (
	"github.com/duskbook/clob/pkg/account"
	"github.com/duskbook/clob/pkg/critbit"
	"github.com/duskbook/clob/pkg/fixedpoint"
	"github.com/google/uuid"
)

// bookSide gives the two matching directions (ascending through the ask
// tree, descending through the bid tree) a single vocabulary: best(),
// value-at-index, and tick destruction.
type bookSide struct {
	tree *critbit.Tree[*TickLevel]
}

func treeOf(t *critbit.Tree[*TickLevel]) bookSide { return bookSide{tree: t} }

func (b bookSide) isEmpty() bool               { return b.tree.IsEmpty() }
func (b bookSide) min() (uint64, uint64)       { return b.tree.Min() }
func (b bookSide) max() (uint64, uint64)       { return b.tree.Max() }
func (b bookSide) value(idx uint64) *TickLevel { return *b.tree.Value(idx) }
func (b bookSide) destroyIfEmpty(idx uint64)   { destroyTickLevelIfEmpty(b.tree, idx) }

// removeMakerFromBook splices maker out of its tick level (destroying
// the level if it drains) and out of its owner's open-order index.
func (p *Pool[Base, Quote]) removeMakerFromBook(side bookSide, tickIdx uint64, maker *Order) {
	lvl := side.value(tickIdx)
	lvl.OpenOrders.Remove(maker.OrderID)
	p.ownerOrders(maker.Owner).Remove(maker.OrderID)
	side.destroyIfEmpty(tickIdx)
}

// skipMaker handles an expired or self-matched maker: unlock its
// remaining margin and record it for the batched AllOrdersCanceled
// event.
func (p *Pool[Base, Quote]) skipMaker(side bookSide, tickIdx uint64, maker *Order, buf *[]CanceledOrderComponent) {
	if maker.IsBid {
		// Unlock the order's own remaining LockedQuote rather than
		// recomputing it from Quantity*Price: once any prior partial fill
		// has reconciled rounding dust against LockedQuote (see matchAsk),
		// the two can differ by a unit or two and a recomputed amount
		// could over- or under-unlock.
		p.QuoteCustodian.Unlock(maker.Owner, maker.LockedQuote)
	} else {
		p.BaseCustodian.Unlock(maker.Owner, maker.Quantity)
	}
	*buf = append(*buf, CanceledOrderComponent{
		OrderID: maker.OrderID, Owner: maker.Owner, Price: maker.Price, Quantity: maker.Quantity, IsBid: maker.IsBid,
	})
	p.removeMakerFromBook(side, tickIdx, maker)
}

func (p *Pool[Base, Quote]) flushSkips(buf []CanceledOrderComponent) {
	if len(buf) == 0 {
		return
	}
	p.sink.AllOrdersCanceled(AllOrdersCanceled{Components: buf})
}

func isExpiredOrSelfMatch(maker *Order, takerOwner account.OwnerId, now uint64) bool {
	return (maker.ExpireTimestamp != 0 && maker.ExpireTimestamp <= now) || maker.Owner == takerOwner
}

// matchBid crosses a taker bid against the ask tree, quantity-limited:
// fills at most quantity base. priceLimit is the highest price the
// taker will cross (MaxPrice for a market buy). quoteBudget bounds how
// much quote the taker can spend; the loop stops early if the next full
// fill would exceed it.
func (p *Pool[Base, Quote]) matchBid(takerOwner account.OwnerId, quantity, priceLimit, quoteBudget, now uint64, withMetadata bool) (filledBase, quoteSpent uint64, metadata []MatchedOrderMetadata) {
	side := treeOf(p.Asks)
	remaining := quantity
	var skipped []CanceledOrderComponent

	for remaining > 0 && !side.isEmpty() {
		price, tickIdx := side.min()
		if price > priceLimit {
			break
		}
		lvl := side.value(tickIdx)

		for remaining > 0 {
			orderID, maker, ok := lvl.OpenOrders.Front()
			if !ok {
				break
			}
			if isExpiredOrSelfMatch(maker, takerOwner, now) {
				p.skipMaker(side, tickIdx, maker, &skipped)
				continue
			}

			filledThis := min64(remaining, maker.Quantity)
			isRoundDown, quote := fixedpoint.UnsafeMulRound(filledThis, maker.Price)
			takerCommission := fixedpoint.CeilMul(quote, p.TakerFeeRate)
			cost := quote + takerCommission
			if cost > quoteBudget {
				remaining = 0
				break
			}
			makerRebate := fixedpoint.UnsafeMul(quote, p.MakerRebateRate)

			makerQuoteCredit := quote + makerRebate
			if isRoundDown && makerQuoteCredit > 0 {
				makerQuoteCredit--
				p.QuoteAssetTradingFees++
			}

			p.BaseCustodian.DecreaseLocked(maker.Owner, filledThis)
			p.QuoteCustodian.IncreaseAvailable(maker.Owner, makerQuoteCredit)
			p.QuoteAssetTradingFees += takerCommission - makerRebate

			recordFill(takerCommission)
			recordTradingFeesAccrued(p.QuoteAssetTradingFees)

			p.sink.OrderFilled(OrderFilled{
				CorrelationID:           uuid.NewString(),
				MakerOrderID:            orderID,
				Price:                   maker.Price,
				FilledBase:              filledThis,
				FilledQuoteNoCommission: quote,
				TakerCommission:         takerCommission,
				MakerRebate:             makerRebate,
				TakerIsBid:              true,
			})
			if withMetadata {
				metadata = append(metadata, MatchedOrderMetadata{MakerOrderID: orderID, Price: maker.Price, FilledBase: filledThis})
			}

			remaining -= filledThis
			quoteBudget -= cost
			filledBase += filledThis
			quoteSpent += cost

			maker.Quantity -= filledThis
			if maker.Quantity == 0 {
				p.removeMakerFromBook(side, tickIdx, maker)
			}
		}

		if lvl.OpenOrders.IsEmpty() {
			side.destroyIfEmpty(tickIdx)
		}
	}

	p.flushSkips(skipped)
	return filledBase, quoteSpent, metadata
}

// matchAsk crosses a taker ask against the bid tree, base-limited by
// baseBudget (the base the taker is selling).
func (p *Pool[Base, Quote]) matchAsk(takerOwner account.OwnerId, priceLimit, baseBudget, now uint64, withMetadata bool) (filledBase, quoteReceived uint64, metadata []MatchedOrderMetadata) {
	side := treeOf(p.Bids)
	remaining := baseBudget
	var skipped []CanceledOrderComponent

	for remaining > 0 && !side.isEmpty() {
		price, tickIdx := side.max()
		if price < priceLimit {
			break
		}
		lvl := side.value(tickIdx)

		for remaining > 0 {
			orderID, maker, ok := lvl.OpenOrders.Front()
			if !ok {
				break
			}
			if isExpiredOrSelfMatch(maker, takerOwner, now) {
				p.skipMaker(side, tickIdx, maker, &skipped)
				continue
			}

			filledThis := min64(remaining, maker.Quantity)
			quote := fixedpoint.Mul(filledThis, maker.Price)

			takerCommission := fixedpoint.CeilMul(quote, p.TakerFeeRate)
			makerRebate := fixedpoint.UnsafeMul(quote, p.MakerRebateRate)

			// Debit the per-fill floor on every partial fill, but on the
			// order's final fill reconcile against its own remaining
			// LockedQuote instead of recomputing one more floor: summed
			// per-fill floors can undershoot the order's original lock by
			// a few units of fixed-point rounding dust, which would
			// otherwise strand locked quote an already-drained order can
			// never reclaim. Any such dust on the final fill goes to the
			// pool's trading fees rather than vanishing.
			makerQuoteDebit := quote
			if filledThis == maker.Quantity {
				makerQuoteDebit = maker.LockedQuote
			}
			if makerQuoteDebit > quote {
				p.QuoteAssetTradingFees += makerQuoteDebit - quote
			}
			maker.LockedQuote -= makerQuoteDebit

			p.QuoteCustodian.DecreaseLocked(maker.Owner, makerQuoteDebit)
			p.QuoteCustodian.IncreaseAvailable(maker.Owner, makerRebate)
			p.BaseCustodian.IncreaseAvailable(maker.Owner, filledThis)

			takerQuoteCredit := uint64(0)
			if quote > takerCommission {
				takerQuoteCredit = quote - takerCommission
			}
			p.QuoteAssetTradingFees += takerCommission - makerRebate

			recordFill(takerCommission)
			recordTradingFeesAccrued(p.QuoteAssetTradingFees)

			p.sink.OrderFilled(OrderFilled{
				CorrelationID:           uuid.NewString(),
				MakerOrderID:            orderID,
				Price:                   maker.Price,
				FilledBase:              filledThis,
				FilledQuoteNoCommission: quote,
				TakerCommission:         takerCommission,
				MakerRebate:             makerRebate,
				TakerIsBid:              false,
			})
			if withMetadata {
				metadata = append(metadata, MatchedOrderMetadata{MakerOrderID: orderID, Price: maker.Price, FilledBase: filledThis})
			}

			remaining -= filledThis
			filledBase += filledThis
			quoteReceived += takerQuoteCredit

			maker.Quantity -= filledThis
			if maker.Quantity == 0 {
				p.removeMakerFromBook(side, tickIdx, maker)
			}
		}

		if lvl.OpenOrders.IsEmpty() {
			side.destroyIfEmpty(tickIdx)
		}
	}

	p.flushSkips(skipped)
	return filledBase, quoteReceived, metadata
}

// matchBidByQuote crosses a taker bid against the ask tree,
// quote-limited: the taker spends up to quoteBudget rather than
// filling an exact base quantity.
func (p *Pool[Base, Quote]) matchBidByQuote(takerOwner account.OwnerId, priceLimit, quoteBudget, now uint64, withMetadata bool) (filledBase, quoteSpent uint64, metadata []MatchedOrderMetadata) {
	side := treeOf(p.Asks)
	var skipped []CanceledOrderComponent

	for quoteBudget > 0 && !side.isEmpty() {
		price, tickIdx := side.min()
		if price > priceLimit {
			break
		}
		lvl := side.value(tickIdx)

		for quoteBudget > 0 {
			orderID, maker, ok := lvl.OpenOrders.Front()
			if !ok {
				break
			}
			if isExpiredOrSelfMatch(maker, takerOwner, now) {
				p.skipMaker(side, tickIdx, maker, &skipped)
				continue
			}

			quoteForFull := fixedpoint.Mul(maker.Quantity, maker.Price)
			costFull := quoteForFull + fixedpoint.CeilMul(quoteForFull, p.TakerFeeRate)

			var filledThis, quote uint64
			terminal := false
			if costFull <= quoteBudget {
				filledThis = maker.Quantity
				quote = quoteForFull
			} else {
				// Open question (spec.md §9): the literal arithmetic for the
				// boundary where the remaining quote affords less than a
				// full maker fill. We solve for the largest base b with
				// b*price*(1+taker_fee_rate/S) <= quoteBudget, rounded down
				// to a LotSize multiple; this fill always terminates the
				// loop since the taker's quote budget is now exhausted.
				denom := maker.Price + fixedpoint.UnsafeMul(maker.Price, p.TakerFeeRate)
				if denom == 0 {
					break
				}
				base := fixedpoint.DivScale(quoteBudget, denom)
				base -= base % LotSize
				if base == 0 {
					quoteBudget = 0
					break
				}
				filledThis = base
				quote = fixedpoint.Mul(filledThis, maker.Price)
				terminal = true
			}

			takerCommission := fixedpoint.CeilMul(quote, p.TakerFeeRate)
			if takerCommission == 0 && quote > 0 && p.TakerFeeRate > 0 {
				// A non-zero rate that rounds all the way down to 0 still
				// owes the pool at least one unit on the quote-quantity
				// path; a pool configured at rate 0 owes nothing.
				takerCommission = 1
			}
			makerRebate := fixedpoint.UnsafeMul(quote, p.MakerRebateRate)
			cost := quote + takerCommission

			p.BaseCustodian.DecreaseLocked(maker.Owner, filledThis)
			p.QuoteCustodian.IncreaseAvailable(maker.Owner, quote+makerRebate)
			p.QuoteAssetTradingFees += takerCommission - makerRebate

			recordFill(takerCommission)
			recordTradingFeesAccrued(p.QuoteAssetTradingFees)

			p.sink.OrderFilled(OrderFilled{
				CorrelationID:           uuid.NewString(),
				MakerOrderID:            orderID,
				Price:                   maker.Price,
				FilledBase:              filledThis,
				FilledQuoteNoCommission: quote,
				TakerCommission:         takerCommission,
				MakerRebate:             makerRebate,
				TakerIsBid:              true,
			})
			if withMetadata {
				metadata = append(metadata, MatchedOrderMetadata{MakerOrderID: orderID, Price: maker.Price, FilledBase: filledThis})
			}

			filledBase += filledThis
			quoteSpent += cost
			if cost >= quoteBudget {
				quoteBudget = 0
			} else {
				quoteBudget -= cost
			}

			maker.Quantity -= filledThis
			if maker.Quantity == 0 {
				p.removeMakerFromBook(side, tickIdx, maker)
			}

			if terminal {
				quoteBudget = 0
				break
			}
		}

		if lvl.OpenOrders.IsEmpty() {
			side.destroyIfEmpty(tickIdx)
		}
	}

	p.flushSkips(skipped)
	return filledBase, quoteSpent, metadata
}

// wouldFullyFill reports whether crossing side up to priceLimit could
// supply at least target units of base, without mutating any book or
// custodian state. PlaceLimitOrder uses this to decide a FILL_OR_KILL
// order's fate before pulling any balance or touching a single maker,
// so an order that cannot be fully filled leaves the book exactly as
// it found it.
func (p *Pool[Base, Quote]) wouldFullyFill(side bookSide, takerOwner account.OwnerId, priceLimit, now, target uint64, ascending bool) bool {
	if target == 0 {
		return true
	}
	if side.isEmpty() {
		return false
	}

	var price, tickIdx uint64
	if ascending {
		price, tickIdx = side.min()
	} else {
		price, tickIdx = side.max()
	}

	var sum uint64
	for {
		if ascending && price > priceLimit {
			break
		}
		if !ascending && price < priceLimit {
			break
		}

		lvl := side.value(tickIdx)
		for _, orderID := range lvl.OpenOrders.Keys() {
			maker, _ := lvl.OpenOrders.Get(orderID)
			if isExpiredOrSelfMatch(maker, takerOwner, now) {
				continue
			}
			sum += maker.Quantity
			if sum >= target {
				return true
			}
		}

		var next, nextIdx uint64
		if ascending {
			next, nextIdx = side.tree.Next(price)
		} else {
			next, nextIdx = side.tree.Previous(price)
		}
		if next == 0 && nextIdx == critbit.Sentinel {
			break
		}
		price, tickIdx = next, nextIdx
	}
	return sum >= target
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
