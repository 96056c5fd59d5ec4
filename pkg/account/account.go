// Package account implements the capability tokens that authorize
// custody access and pool ownership: OwnerId, the opaque 32-byte owner
// tag, and AccountCap, the admin/child capability pair that gates
// withdrawals and locking.
//
// Identity derivation follows the teacher's crypto package: an owner id
// is a Keccak256 digest, the same primitive
// pkg/crypto/signer.go uses to turn an ECDSA public key into an
// address, just widened from a 20-byte address to a 32-byte hash so it
// matches the capability token's own width.
package account

import (
	"crypto/rand"
	"errors"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrAdminAccountCapRequired is returned when a child capability is used
// where only an admin capability may act (minting further children).
var ErrAdminAccountCapRequired = errors.New("account: admin account cap required")

// OwnerId is the opaque identity tag threaded through the custodian and
// the order book. Two caps share an OwnerId iff they were minted from
// the same admin cap.
type OwnerId = common.Hash

var mintCounter uint64

// mintID derives a fresh, collision-resistant 32-byte id from a
// monotonic counter and process entropy, mirroring the
// generate-then-hash shape of crypto.GenerateKey ->
// crypto.PubkeyToAddress in the teacher's signer.
func mintID() OwnerId {
	n := atomic.AddUint64(&mintCounter, 1)
	var buf [40]byte
	buf[0] = byte(n >> 56)
	buf[1] = byte(n >> 48)
	buf[2] = byte(n >> 40)
	buf[3] = byte(n >> 32)
	buf[4] = byte(n >> 24)
	buf[5] = byte(n >> 16)
	buf[6] = byte(n >> 8)
	buf[7] = byte(n)
	if _, err := rand.Read(buf[8:]); err != nil {
		// crypto/rand failing is unrecoverable for identity minting; the
		// counter alone is hashed instead of leaving buf[8:] as zeroes
		// under an unrelated error.
		return crypto.Keccak256Hash(buf[:8])
	}
	return crypto.Keccak256Hash(buf[:])
}

// AccountCap is an opaque capability token. An admin cap has ID() ==
// Owner(); a child cap shares its admin's Owner() but carries a
// distinct ID() and cannot mint further children.
type AccountCap struct {
	id    OwnerId
	owner OwnerId
}

// MintAccountCap produces a fresh admin capability.
func MintAccountCap() AccountCap {
	id := mintID()
	return AccountCap{id: id, owner: id}
}

// CreateChildAccountCap produces a capability sharing admin's owner but
// with its own distinct id. Fails unless admin is itself an admin cap.
func CreateChildAccountCap(admin *AccountCap) (AccountCap, error) {
	if !admin.IsAdmin() {
		return AccountCap{}, ErrAdminAccountCapRequired
	}
	return AccountCap{id: mintID(), owner: admin.owner}, nil
}

// DeleteAccountCap exists for parity with the capability's on-chain
// lifecycle (explicit object deletion); in this in-process engine there
// is nothing to reclaim, so it is a no-op.
func DeleteAccountCap(cap AccountCap) {}

// IsAdmin reports whether cap is an admin (root) capability.
func (c AccountCap) IsAdmin() bool { return c.id == c.owner }

// ID returns the capability's own identity.
func (c AccountCap) ID() OwnerId { return c.id }

// Owner returns the OwnerId this capability authenticates as — the
// value the custodian keys balances by.
func (c AccountCap) Owner() OwnerId { return c.owner }

// AccountOwner is the external entry-surface name for AccountCap.Owner.
func AccountOwner(cap *AccountCap) OwnerId { return cap.Owner() }
