package holders

import (
	"sort"
	"testing"

	"github.com/MinterTeam/minter-lottery/core/state/accounts"
	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/MinterTeam/minter-lottery/tree"
	"github.com/holiman/uint256"
	db "github.com/tendermint/tm-db"
)

var minBalance = uint256.NewInt(5000)

func address(b byte) types.Address {
	return types.BytesToAddress([]byte{b})
}

func newHolders(t *testing.T) (*Holders, *accounts.Accounts, tree.MTree) {
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	b := bus.NewBus()
	acc := accounts.NewAccounts(b, mutableTree.GetLastImmutable())
	return NewHolders(b, mutableTree.GetLastImmutable(), minBalance), acc, mutableTree
}

func TestHolders_Update(t *testing.T) {
	t.Parallel()
	holders, acc, _ := newHolders(t)

	a := address(1)
	acc.SetBalance(a, uint256.NewInt(4999))
	holders.Update(a)
	if holders.IsEligible(a) {
		t.Fatal("balance below threshold should not be eligible")
	}

	acc.SetBalance(a, uint256.NewInt(5000))
	holders.Update(a)
	if !holders.IsEligible(a) {
		t.Fatal("balance equal to threshold should be eligible")
	}
	if holders.GetSnapshot(a).Uint64() != 5000 {
		t.Fatalf("snapshot should be 5000, got %s", holders.GetSnapshot(a).Dec())
	}

	acc.SetBalance(a, uint256.NewInt(7000))
	holders.Update(a)
	if holders.Count() != 1 {
		t.Fatal("update of eligible account should not duplicate it")
	}
	if holders.GetSnapshot(a).Uint64() != 7000 {
		t.Fatalf("snapshot should track balance, got %s", holders.GetSnapshot(a).Dec())
	}

	acc.SetBalance(a, uint256.NewInt(10))
	holders.Update(a)
	if holders.IsEligible(a) || holders.Count() != 0 {
		t.Fatal("account below threshold should be removed")
	}
	if !holders.GetSnapshot(a).IsZero() {
		t.Fatal("snapshot should be reset after removal")
	}
}

func TestHolders_UpdateSkipsVault(t *testing.T) {
	t.Parallel()
	holders, acc, _ := newHolders(t)

	acc.SetBalance(types.LotteryVaultAddress, uint256.NewInt(1000000))
	holders.Update(types.LotteryVaultAddress)

	if holders.IsEligible(types.LotteryVaultAddress) {
		t.Fatal("lottery vault should never be eligible")
	}
}

func TestHolders_RemovePreservesMembers(t *testing.T) {
	t.Parallel()
	holders, acc, _ := newHolders(t)

	for i := byte(1); i <= 5; i++ {
		acc.SetBalance(address(i), uint256.NewInt(6000))
		holders.Update(address(i))
	}

	holders.Remove(address(2))

	list := holders.List()
	if len(list) != 4 {
		t.Fatalf("list should have 4 members, got %d", len(list))
	}

	if list[1] != address(5) {
		t.Fatalf("last member should take the removed slot, got %s", list[1])
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Compare(list[j]) == -1 })
	want := []types.Address{address(1), address(3), address(4), address(5)}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("members differ at %d: want %s, got %s", i, want[i], list[i])
		}
	}

	// moved member must still be removable by its new index
	holders.Remove(address(5))
	holders.Remove(address(1))
	list = holders.List()
	if len(list) != 2 {
		t.Fatalf("list should have 2 members, got %d", len(list))
	}
	for _, a := range list {
		if a != address(3) && a != address(4) {
			t.Fatalf("unexpected member %s", a)
		}
	}

	holders.Remove(address(9))
	if holders.Count() != 2 {
		t.Fatal("removing unknown address should be no-op")
	}
}

func TestHolders_Commit(t *testing.T) {
	t.Parallel()
	holders, acc, mutableTree := newHolders(t)

	for i := byte(1); i <= 3; i++ {
		acc.SetBalance(address(i), uint256.NewInt(uint64(5000+int(i))))
		holders.Update(address(i))
	}
	holders.Remove(address(1))

	if _, _, err := mutableTree.Commit(acc, holders); err != nil {
		t.Fatal(err)
	}

	b := bus.NewBus()
	accounts.NewAccounts(b, mutableTree.GetLastImmutable())
	reloaded := NewHolders(b, mutableTree.GetLastImmutable(), minBalance)

	list := reloaded.List()
	if len(list) != 2 || list[0] != address(3) || list[1] != address(2) {
		t.Fatalf("unexpected list after reload %v", list)
	}
	if reloaded.IsEligible(address(1)) {
		t.Fatal("removed holder should not be eligible after reload")
	}
	if reloaded.GetSnapshot(address(2)).Uint64() != 5002 {
		t.Fatalf("snapshot should survive reload, got %s", reloaded.GetSnapshot(address(2)).Dec())
	}

	// index of moved holder should survive reload too
	reloaded.Remove(address(3))
	list = reloaded.List()
	if len(list) != 1 || list[0] != address(2) {
		t.Fatalf("unexpected list %v", list)
	}

	state := new(types.AppState)
	reloaded.Export(state)
	if len(state.Holders) != 1 || state.Holders[0] != address(2) {
		t.Fatalf("unexpected export %v", state.Holders)
	}
}
