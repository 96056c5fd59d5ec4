package clob

import (
	"reflect"

	"github.com/duskbook/clob/pkg/account"
	"github.com/duskbook/clob/pkg/critbit"
	"github.com/duskbook/clob/pkg/custodian"
	"github.com/duskbook/clob/pkg/ticklevel"
	"github.com/duskbook/clob/pkg/util"
	"go.uber.org/zap"
)

// TickLevel is the set of resting orders at one exact price, ordered
// FIFO. An empty TickLevel is destroyed in the same call that empties
// it — the tree never holds a price with no orders behind it.
type TickLevel struct {
	Price      uint64
	OpenOrders *ticklevel.List[*Order]
}

func newTickLevel(price uint64) *TickLevel {
	return &TickLevel{Price: price, OpenOrders: ticklevel.New[*Order]()}
}

// PoolOwnerCap authorizes fee withdrawal from the pool it was minted
// with; Owner() equals the pool's own id.
type PoolOwnerCap struct {
	owner account.OwnerId
}

// Owner returns the id of the pool this cap was minted for.
func (c PoolOwnerCap) Owner() account.OwnerId { return c.owner }

// Config carries the host-provided collaborators the spec keeps out of
// the CORE's own scope: a Clock, an event sink, and a logger. All three
// default to a usable no-op/real value when left unset, the same
// tolerate-nil-dependency posture as pkg/util/log.go's constructors.
type Config struct {
	Clock  util.Clock
	Sink   EventSink
	Logger *zap.Logger
}

func (c Config) resolved() Config {
	if c.Clock == nil {
		c.Clock = util.RealClock{}
	}
	if c.Sink == nil {
		c.Sink = NopEventSink{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Pool bundles a market's bid/ask trees, custodians, order-id counters,
// and fee configuration. Base and Quote are phantom type parameters
// distinguishing the two custodians at compile time.
type Pool[Base, Quote any] struct {
	ID account.OwnerId

	TickSize uint64
	LotSize  uint64

	TakerFeeRate    uint64
	MakerRebateRate uint64

	Bids *critbit.Tree[*TickLevel]
	Asks *critbit.Tree[*TickLevel]

	nextBidOrderID uint64
	nextAskOrderID uint64

	// usrOpenOrders maps an owner to their open orders, order_id -> price,
	// in insertion order — cancel_all_orders walks it newest-first.
	usrOpenOrders map[account.OwnerId]*ticklevel.List[uint64]

	BaseCustodian  *custodian.Custodian[Base]
	QuoteCustodian *custodian.Custodian[Quote]

	creationFee           uint64
	QuoteAssetTradingFees uint64

	clock util.Clock
	sink  EventSink
	log   *zap.Logger
}

// CreatePool creates a pool with the spec's reference fee rates.
func CreatePool[Base, Quote any](tickSize, minSize, creationFee uint64, cfg Config) (*Pool[Base, Quote], PoolOwnerCap, error) {
	return CreateCustomizedPool[Base, Quote](tickSize, minSize, ReferenceTakerFeeRate, ReferenceMakerRebateRate, creationFee, cfg)
}

// CreateCustomizedPool creates a pool with caller-chosen fee rates.
func CreateCustomizedPool[Base, Quote any](tickSize, minSize, takerFeeRate, makerRebateRate, creationFee uint64, cfg Config) (*Pool[Base, Quote], PoolOwnerCap, error) {
	if reflect.TypeOf((*Base)(nil)) == reflect.TypeOf((*Quote)(nil)) {
		return nil, PoolOwnerCap{}, ErrInvalidPair
	}
	if tickSize == 0 || minSize == 0 {
		return nil, PoolOwnerCap{}, ErrInvalidTickSizeMinSize
	}
	if takerFeeRate < makerRebateRate {
		return nil, PoolOwnerCap{}, ErrInvalidFeeRateRebateRate
	}
	if creationFee != FeeAmountForCreatePool {
		return nil, PoolOwnerCap{}, ErrInvalidFee
	}

	cfg = cfg.resolved()
	admin := account.MintAccountCap()
	poolID := admin.Owner()

	p := &Pool[Base, Quote]{
		ID:              poolID,
		TickSize:        tickSize,
		LotSize:         minSize,
		TakerFeeRate:    takerFeeRate,
		MakerRebateRate: makerRebateRate,
		Bids:            &critbit.Tree[*TickLevel]{},
		Asks:            &critbit.Tree[*TickLevel]{},
		nextBidOrderID:  MinBidOrderID,
		nextAskOrderID:  MinAskOrderID,
		usrOpenOrders:   make(map[account.OwnerId]*ticklevel.List[uint64]),
		BaseCustodian:   custodian.New[Base](),
		QuoteCustodian:  custodian.New[Quote](),
		creationFee:     creationFee,
		clock:           cfg.Clock,
		sink:            cfg.Sink,
		log:             cfg.Logger,
	}

	p.sink.PoolCreated(PoolCreated{
		PoolID:          poolID,
		TickSize:        tickSize,
		LotSize:         minSize,
		TakerFeeRate:    takerFeeRate,
		MakerRebateRate: makerRebateRate,
	})

	return p, PoolOwnerCap{owner: poolID}, nil
}

// WithdrawFees drains pool.QuoteAssetTradingFees to the caller,
// authenticated by a PoolOwnerCap matching this pool.
func (p *Pool[Base, Quote]) WithdrawFees(cap PoolOwnerCap) (uint64, error) {
	if cap.owner != p.ID {
		return 0, ErrIncorrectPoolOwner
	}
	amount := p.QuoteAssetTradingFees
	p.QuoteAssetTradingFees = 0
	recordTradingFeesAccrued(0)
	return amount, nil
}

// DeletePoolOwnerCap exists for external-interface parity; there is no
// resource to reclaim in this in-process engine.
func DeletePoolOwnerCap(cap PoolOwnerCap) {}

// DepositBase credits cap's available base balance.
func (p *Pool[Base, Quote]) DepositBase(cap *account.AccountCap, qty uint64) {
	p.BaseCustodian.Deposit(cap.Owner(), qty)
	p.sink.DepositAsset(DepositAsset{Owner: cap.Owner(), Quantity: qty, IsBase: true})
}

// DepositQuote credits cap's available quote balance.
func (p *Pool[Base, Quote]) DepositQuote(cap *account.AccountCap, qty uint64) {
	p.QuoteCustodian.Deposit(cap.Owner(), qty)
	p.sink.DepositAsset(DepositAsset{Owner: cap.Owner(), Quantity: qty, IsBase: false})
}

// WithdrawBase debits cap's available base balance.
func (p *Pool[Base, Quote]) WithdrawBase(cap *account.AccountCap, qty uint64) (uint64, error) {
	got, err := p.BaseCustodian.Withdraw(cap, qty)
	if err != nil {
		return 0, ErrInsufficientBaseCoin
	}
	p.sink.WithdrawAsset(WithdrawAsset{Owner: cap.Owner(), Quantity: got, IsBase: true})
	return got, nil
}

// WithdrawQuote debits cap's available quote balance.
func (p *Pool[Base, Quote]) WithdrawQuote(cap *account.AccountCap, qty uint64) (uint64, error) {
	got, err := p.QuoteCustodian.Withdraw(cap, qty)
	if err != nil {
		return 0, ErrInsufficientQuoteCoin
	}
	p.sink.WithdrawAsset(WithdrawAsset{Owner: cap.Owner(), Quantity: got, IsBase: false})
	return got, nil
}

// AccountBalance reports (available, locked) for both assets.
func (p *Pool[Base, Quote]) AccountBalance(owner account.OwnerId) (baseAvail, baseLocked, quoteAvail, quoteLocked uint64) {
	baseAvail, baseLocked = p.BaseCustodian.AccountBalance(owner)
	quoteAvail, quoteLocked = p.QuoteCustodian.AccountBalance(owner)
	return
}

// findOrCreateTickLevel looks up the tick level at price in tree,
// creating and inserting an empty one if absent.
func findOrCreateTickLevel(tree *critbit.Tree[*TickLevel], price uint64) (uint64, *TickLevel) {
	if idx, ok := tree.Find(price); ok {
		return idx, *tree.Value(idx)
	}
	lvl := newTickLevel(price)
	idx := tree.Insert(price, lvl)
	return idx, lvl
}

// destroyTickLevelIfEmpty removes the tick level at idx from tree once
// its order list has drained, per the "no empty tick levels" invariant.
func destroyTickLevelIfEmpty(tree *critbit.Tree[*TickLevel], idx uint64) {
	lvl := *tree.Value(idx)
	if lvl.OpenOrders.IsEmpty() {
		tree.RemoveLeafByIndex(idx)
	}
}

func (p *Pool[Base, Quote]) ownerOrders(owner account.OwnerId) *ticklevel.List[uint64] {
	l, ok := p.usrOpenOrders[owner]
	if !ok {
		l = ticklevel.New[uint64]()
		p.usrOpenOrders[owner] = l
	}
	return l
}
