// Package params supplies default knobs for a demo/CLI harness that
// wires up a Pool. It does not participate in create_pool's own
// explicit-parameter contract — a caller embedding the engine directly
// always supplies tick_size/lot_size/fee rates itself.
package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// PoolDefaults are the values cmd/clobdemo falls back to when not
// overridden by environment variables.
type PoolDefaults struct {
	TickSize        uint64
	LotSize         uint64
	TakerFeeRate    uint64
	MakerRebateRate uint64
	CreationFee     uint64
}

type Config struct {
	Pool PoolDefaults
}

// Default mirrors spec.md's reference numeric constants.
func Default() Config {
	return Config{
		Pool: PoolDefaults{
			TickSize:        1,
			LotSize:         1,
			TakerFeeRate:    2_500_000,
			MakerRebateRate: 1_500_000,
			CreationFee:     1_000_000_000,
		},
	}
}

// LoadFromEnv loads an optional .env file (if present) and lets
// environment variables override specific numeric knobs. Priority: ENV
// > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("CLOB_TICK_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pool.TickSize = n
		}
	}
	if v := os.Getenv("CLOB_LOT_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pool.LotSize = n
		}
	}
	if v := os.Getenv("CLOB_TAKER_FEE_RATE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pool.TakerFeeRate = n
		}
	}
	if v := os.Getenv("CLOB_MAKER_REBATE_RATE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pool.MakerRebateRate = n
		}
	}
	if v := os.Getenv("CLOB_CREATION_FEE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pool.CreationFee = n
		}
	}

	return cfg
}
