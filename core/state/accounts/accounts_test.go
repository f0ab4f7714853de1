package accounts

import (
	"testing"

	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/MinterTeam/minter-lottery/tree"
	"github.com/holiman/uint256"
	db "github.com/tendermint/tm-db"
)

var (
	alice = types.HexToAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	bob   = types.HexToAddress("Mx18467bbb64a8edf890201d526c35957d82be3d95")
)

func TestAccounts_Balance(t *testing.T) {
	t.Parallel()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	accounts := NewAccounts(bus.NewBus(), mutableTree.GetLastImmutable())

	if !accounts.GetBalance(alice).IsZero() {
		t.Fatal("unknown account should have zero balance")
	}

	accounts.AddBalance(alice, uint256.NewInt(1000))
	if err := accounts.SubBalance(alice, uint256.NewInt(400)); err != nil {
		t.Fatal(err)
	}

	if accounts.GetBalance(alice).Uint64() != 600 {
		t.Fatalf("balance should be 600, got %s", accounts.GetBalance(alice).Dec())
	}

	err = accounts.SubBalance(alice, uint256.NewInt(601))
	if code.Of(err) != code.InsufficientFunds {
		t.Fatalf("want InsufficientFunds, got %v", err)
	}
	if accounts.GetBalance(alice).Uint64() != 600 {
		t.Fatal("failed debit should not change balance")
	}

	balance := accounts.GetBalance(alice)
	balance.SetUint64(1)
	if accounts.GetBalance(alice).Uint64() != 600 {
		t.Fatal("GetBalance should return a copy")
	}

	if _, _, err := mutableTree.Commit(accounts); err != nil {
		t.Fatal(err)
	}

	reloaded := NewAccounts(bus.NewBus(), mutableTree.GetLastImmutable())
	if reloaded.GetBalance(alice).Uint64() != 600 {
		t.Fatalf("balance after reload should be 600, got %s", reloaded.GetBalance(alice).Dec())
	}
}

func TestAccounts_AddBalanceOverflow(t *testing.T) {
	t.Parallel()
	accounts := NewAccounts(bus.NewBus(), nil)

	max := new(uint256.Int).SetAllOne()
	accounts.AddBalance(alice, max)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("overflow should panic")
		}
	}()
	accounts.AddBalance(alice, uint256.NewInt(1))
}

func TestAccounts_Allowance(t *testing.T) {
	t.Parallel()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	accounts := NewAccounts(bus.NewBus(), mutableTree.GetLastImmutable())

	accounts.SetAllowance(alice, bob, uint256.NewInt(100))

	err = accounts.ConsumeAllowance(alice, bob, uint256.NewInt(101))
	if code.Of(err) != code.InsufficientAllowance {
		t.Fatalf("want InsufficientAllowance, got %v", err)
	}
	if accounts.GetAllowance(alice, bob).Uint64() != 100 {
		t.Fatal("failed consume should not change allowance")
	}

	if err := accounts.ConsumeAllowance(alice, bob, uint256.NewInt(40)); err != nil {
		t.Fatal(err)
	}
	if !accounts.GetAllowance(bob, alice).IsZero() {
		t.Fatal("allowance is directional")
	}

	if _, _, err := mutableTree.Commit(accounts); err != nil {
		t.Fatal(err)
	}

	reloaded := NewAccounts(bus.NewBus(), mutableTree.GetLastImmutable())
	if reloaded.GetAllowance(alice, bob).Uint64() != 60 {
		t.Fatalf("allowance after reload should be 60, got %s", reloaded.GetAllowance(alice, bob).Dec())
	}
}

func TestAccounts_Export(t *testing.T) {
	t.Parallel()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	accounts := NewAccounts(bus.NewBus(), mutableTree.GetLastImmutable())

	accounts.SetBalance(alice, uint256.NewInt(5))
	accounts.SetBalance(bob, uint256.NewInt(7))
	accounts.SetAllowance(alice, bob, uint256.NewInt(3))
	if _, _, err := mutableTree.Commit(accounts); err != nil {
		t.Fatal(err)
	}

	if err := accounts.SubBalance(bob, uint256.NewInt(7)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := mutableTree.Commit(accounts); err != nil {
		t.Fatal(err)
	}

	state := new(types.AppState)
	NewAccounts(bus.NewBus(), mutableTree.GetLastImmutable()).Export(state)

	if len(state.Accounts) != 1 {
		t.Fatalf("emptied accounts should not be exported, got %d accounts", len(state.Accounts))
	}
	if state.Accounts[0].Address != alice || state.Accounts[0].Balance != "5" {
		t.Fatalf("unexpected account %+v", state.Accounts[0])
	}
	if len(state.Allowances) != 1 || state.Allowances[0].Owner != alice || state.Allowances[0].Spender != bob || state.Allowances[0].Value != "3" {
		t.Fatalf("unexpected allowances %+v", state.Allowances)
	}
}
