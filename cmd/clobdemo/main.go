// Command clobdemo wires up a single pool, mints a couple of accounts,
// and walks them through a handful of orders, printing book state and
// balances as it goes. It is a single-process, single-goroutine driver
// — not a node, not a server — matching the engine's transactional,
// non-concurrent CORE model.
package main

import (
	"fmt"

	"github.com/duskbook/clob/params"
	"github.com/duskbook/clob/pkg/account"
	"github.com/duskbook/clob/pkg/clob"
	"github.com/duskbook/clob/pkg/util"
	"go.uber.org/zap"
)

// USD and BTC are phantom asset markers distinguishing the two
// custodians at compile time; the engine never looks at their fields.
type USD struct{}
type BTC struct{}

func main() {
	log, err := util.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := params.LoadFromEnv("")

	pool, ownerCap, err := clob.CreateCustomizedPool[BTC, USD](
		cfg.Pool.TickSize,
		cfg.Pool.LotSize,
		cfg.Pool.TakerFeeRate,
		cfg.Pool.MakerRebateRate,
		cfg.Pool.CreationFee,
		clob.Config{Logger: log, Sink: clob.NewZapEventSink(log)},
	)
	if err != nil {
		log.Fatal("create pool failed", zap.Error(err))
	}
	log.Info("pool created", zap.String("pool_id", fmt.Sprintf("%x", pool.ID)))

	maker := account.MintAccountCap()
	taker := account.MintAccountCap()

	pool.DepositBase(&maker, 10_000_000)
	pool.DepositQuote(&taker, 10_000_000)

	const now = 1_000
	const expire = 2_000

	_, _, _, makerOrderID, _, err := pool.PlaceLimitOrder(
		&maker, 1, 100, 1000, clob.CancelOldest, false, expire, clob.NoRestriction, now,
	)
	if err != nil {
		log.Fatal("maker ask failed", zap.Error(err))
	}
	fmt.Printf("maker resting ask order_id=%d\n", makerOrderID)

	filledBase, quoteSpent, injected, takerOrderID, metadata, err := pool.PlaceLimitOrder(
		&taker, 2, 100, 500, clob.CancelOldest, true, expire, clob.ImmediateOrCancel, now+1,
	)
	if err != nil {
		log.Fatal("taker bid failed", zap.Error(err))
	}
	fmt.Printf("taker filled base=%d quote_spent=%d injected=%v order_id=%d fills=%d\n",
		filledBase, quoteSpent, injected, takerOrderID, len(metadata))

	bid, bidOK, ask, askOK := pool.GetMarketPrice()
	fmt.Printf("market: bid=%d(ok=%v) ask=%d(ok=%v)\n", bid, bidOK, ask, askOK)

	prices, depths := pool.GetLevel2BookStatusAskSide(0, clob.MaxPrice)
	fmt.Printf("ask side: prices=%v depths=%v\n", prices, depths)

	makerBaseAvail, makerBaseLocked, makerQuoteAvail, makerQuoteLocked := pool.AccountBalanceOf(maker.Owner())
	fmt.Printf("maker balances: base_avail=%d base_locked=%d quote_avail=%d quote_locked=%d\n",
		makerBaseAvail, makerBaseLocked, makerQuoteAvail, makerQuoteLocked)

	takerBaseAvail, takerBaseLocked, takerQuoteAvail, takerQuoteLocked := pool.AccountBalanceOf(taker.Owner())
	fmt.Printf("taker balances: base_avail=%d base_locked=%d quote_avail=%d quote_locked=%d\n",
		takerBaseAvail, takerBaseLocked, takerQuoteAvail, takerQuoteLocked)

	fees, err := pool.WithdrawFees(ownerCap)
	if err != nil {
		log.Fatal("withdraw fees failed", zap.Error(err))
	}
	fmt.Printf("pool trading fees withdrawn: %d\n", fees)
}
