package clob

import "errors"

// Validation errors — reported at the entry boundary before any state
// change.
var (
	ErrInvalidPrice                     = errors.New("clob: invalid price")
	ErrInvalidQuantity                  = errors.New("clob: invalid quantity")
	ErrInvalidTickPrice                 = errors.New("clob: price is not a multiple of tick size")
	ErrInvalidTickSizeMinSize           = errors.New("clob: invalid tick_size/min_size")
	ErrInvalidPair                      = errors.New("clob: base and quote asset must differ")
	ErrInvalidFee                       = errors.New("clob: invalid creation fee")
	ErrInvalidExpireTimestamp           = errors.New("clob: expire_timestamp must be in the future")
	ErrInvalidRestriction               = errors.New("clob: invalid time-in-force restriction")
	ErrInvalidSelfMatchingPreventionArg = errors.New("clob: invalid self_matching_prevention policy")
	ErrInvalidFeeRateRebateRate         = errors.New("clob: taker_fee_rate must be >= maker_rebate_rate")
	ErrInsufficientBaseCoin             = errors.New("clob: insufficient base balance")
	ErrInsufficientQuoteCoin            = errors.New("clob: insufficient quote balance")
)

// Authorization errors.
var (
	ErrUnauthorizedCancel      = errors.New("clob: order owner does not match cap owner")
	ErrIncorrectPoolOwner      = errors.New("clob: pool owner cap does not match this pool")
	ErrAdminAccountCapRequired = errors.New("clob: admin account cap required")
	ErrInvalidUser             = errors.New("clob: owner has no open orders")
)

// Lookup errors.
var (
	ErrInvalidOrderID = errors.New("clob: unknown order id")
)

// Time-in-force violations.
var (
	ErrOrderCannotBeFullyFilled  = errors.New("clob: FILL_OR_KILL order could not be fully filled")
	ErrOrderCannotBeFullyPassive = errors.New("clob: POST_OR_ABORT order would have matched immediately")
)
