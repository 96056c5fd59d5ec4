package clob

// Wire-level numeric constants from the engine's external interface.
const (
	FloatScaling = 1_000_000_000
	MaxPrice     = ^uint64(0)
	MinPrice     = uint64(0)

	// MinAskOrderID / MinBidOrderID partition the order-id space so an
	// order's id alone reveals its side: bid ids start at 1 and climb
	// toward 1<<63; ask ids start at 1<<63.
	MinAskOrderID uint64 = 1 << 63
	MinBidOrderID uint64 = 1

	// LotSize is the hard-coded fundamental base-quantity granularity
	// used inside the quote-quantity matching path. It is intentionally
	// independent of Pool.LotSize (the pool's configurable minimum order
	// size) — see the design notes on why these stay two constants.
	LotSize uint64 = 1000

	FeeAmountForCreatePool = uint64(1_000_000_000)

	ReferenceTakerFeeRate    uint64 = 2_500_000
	ReferenceMakerRebateRate uint64 = 1_500_000
)

// SelfMatchingPrevention policies. The spec defines exactly one; the
// field width leaves room for more, but placement must reject anything
// else.
type SelfMatchingPrevention uint8

const (
	CancelOldest SelfMatchingPrevention = 0
)

// Restriction is the time-in-force for a limit order.
type Restriction uint8

const (
	NoRestriction Restriction = iota
	ImmediateOrCancel
	FillOrKill
	PostOrAbort
)
