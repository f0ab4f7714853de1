package app

import (
	"testing"

	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/MinterTeam/minter-lottery/tree"
	"github.com/holiman/uint256"
	db "github.com/tendermint/tm-db"
)

func TestApp_Commit(t *testing.T) {
	t.Parallel()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp(bus.NewBus(), mutableTree.GetLastImmutable())

	app.SetGenesisTime(1600000000)
	app.IncrementTxCount()
	app.IncrementTxCount()
	app.AddTotalTax(uint256.NewInt(500))
	app.AddTotalTax(uint256.NewInt(1))
	app.AddTotalPaid(uint256.NewInt(250))
	app.AddForfeited(uint256.NewInt(100))
	app.AddDust(uint256.NewInt(2))

	if _, _, err := mutableTree.Commit(app); err != nil {
		t.Fatal(err)
	}

	reloaded := NewApp(bus.NewBus(), mutableTree.GetLastImmutable())
	state := new(types.AppState)
	reloaded.Export(state)

	if state.GenesisTime != 1600000000 || state.TxCount != 2 {
		t.Fatalf("unexpected counters %+v", state)
	}
	if state.TotalTax != "501" || state.TotalPaid != "250" || state.Forfeited != "100" || state.Dust != "2" {
		t.Fatalf("unexpected amounts %+v", state)
	}
}

func TestApp_AddSaturates(t *testing.T) {
	t.Parallel()
	app := NewApp(bus.NewBus(), nil)

	app.AddTotalTax(new(uint256.Int).SetAllOne())
	app.AddTotalTax(uint256.NewInt(10))

	if app.GetTotalTax().Cmp(new(uint256.Int).SetAllOne()) != 0 {
		t.Fatal("counter should saturate")
	}
}
