package account

import (
	"errors"
	"testing"
)

func TestMintAccountCapIsAdmin(t *testing.T) {
	cap := MintAccountCap()
	if !cap.IsAdmin() {
		t.Fatalf("minted cap should be admin")
	}
	if cap.ID() != cap.Owner() {
		t.Fatalf("admin cap id/owner mismatch")
	}
}

func TestCreateChildAccountCap(t *testing.T) {
	admin := MintAccountCap()
	child, err := CreateChildAccountCap(&admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if child.IsAdmin() {
		t.Fatalf("child cap should not be admin")
	}
	if child.Owner() != admin.Owner() {
		t.Fatalf("child owner should match admin owner")
	}
	if child.ID() == admin.ID() {
		t.Fatalf("child id should differ from admin id")
	}
}

func TestChildCannotMintGrandchild(t *testing.T) {
	admin := MintAccountCap()
	child, err := CreateChildAccountCap(&admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = CreateChildAccountCap(&child)
	if !errors.Is(err, ErrAdminAccountCapRequired) {
		t.Fatalf("expected ErrAdminAccountCapRequired, got %v", err)
	}
}

func TestMintedIdsAreUnique(t *testing.T) {
	a := MintAccountCap()
	b := MintAccountCap()
	if a.Owner() == b.Owner() {
		t.Fatalf("two independently minted caps should have distinct owners")
	}
}
