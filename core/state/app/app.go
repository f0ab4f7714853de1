package app

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/cosmos/iavl"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
)

const mainPrefix = 'd'

var cdc = amino.NewCodec()

type RApp interface {
	Export(state *types.AppState)
	GetGenesisTime() uint64
	GetTxCount() uint64
	GetTotalTax() *uint256.Int
	GetTotalPaid() *uint256.Int
	GetForfeited() *uint256.Int
	GetDust() *uint256.Int
}

// App holds global counters of the lottery.
type App struct {
	model   *Model
	isDirty bool

	db atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewApp(stateBus *bus.Bus, db *iavl.ImmutableTree) *App {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &App{bus: stateBus, db: immutableTree}
}

func (a *App) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *App) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *App) Commit(db *iavl.MutableTree) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.isDirty {
		return nil
	}

	a.isDirty = false

	data, err := cdc.MarshalBinaryBare(a.model)
	if err != nil {
		return errors.Wrap(err, "can't encode app model")
	}

	path := []byte{mainPrefix}
	db.Set(path, data)

	return nil
}

func (a *App) GetGenesisTime() uint64 {
	return a.getOrNew().getGenesisTime()
}

func (a *App) SetGenesisTime(t uint64) {
	model := a.getOrNew()

	a.mx.Lock()
	defer a.mx.Unlock()
	model.setGenesisTime(t)
}

func (a *App) GetTxCount() uint64 {
	return a.getOrNew().getTxCount()
}

func (a *App) SetTxCount(count uint64) {
	model := a.getOrNew()

	a.mx.Lock()
	defer a.mx.Unlock()
	model.setTxCount(count)
}

func (a *App) IncrementTxCount() {
	model := a.getOrNew()

	a.mx.Lock()
	defer a.mx.Unlock()
	model.setTxCount(model.getTxCount() + 1)
}

func (a *App) GetTotalTax() *uint256.Int {
	return a.getAmount(func(m *Model) []byte { return m.TotalTax })
}

func (a *App) AddTotalTax(amount *uint256.Int) {
	a.addAmount(func(m *Model) *[]byte { return &m.TotalTax }, amount)
}

func (a *App) GetTotalPaid() *uint256.Int {
	return a.getAmount(func(m *Model) []byte { return m.TotalPaid })
}

func (a *App) AddTotalPaid(amount *uint256.Int) {
	a.addAmount(func(m *Model) *[]byte { return &m.TotalPaid }, amount)
}

// GetForfeited returns pools amount that reached their cadence with nobody eligible.
func (a *App) GetForfeited() *uint256.Int {
	return a.getAmount(func(m *Model) []byte { return m.Forfeited })
}

func (a *App) AddForfeited(amount *uint256.Int) {
	a.addAmount(func(m *Model) *[]byte { return &m.Forfeited }, amount)
}

// GetDust returns tax left in the vault by share truncation.
func (a *App) GetDust() *uint256.Int {
	return a.getAmount(func(m *Model) []byte { return m.Dust })
}

func (a *App) AddDust(amount *uint256.Int) {
	a.addAmount(func(m *Model) *[]byte { return &m.Dust }, amount)
}

func (a *App) getAmount(field func(m *Model) []byte) *uint256.Int {
	model := a.getOrNew()

	a.mx.Lock()
	defer a.mx.Unlock()
	return new(uint256.Int).SetBytes(field(model))
}

func (a *App) addAmount(field func(m *Model) *[]byte, amount *uint256.Int) {
	model := a.getOrNew()

	a.mx.Lock()
	defer a.mx.Unlock()
	model.add(field(model), amount)
}

func (a *App) get() *Model {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.model != nil {
		return a.model
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}

	path := []byte{mainPrefix}
	_, enc := tree.Get(path)
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode app model at: %s", err))
	}

	a.model = model
	a.model.markDirty = a.markDirty
	return a.model
}

func (a *App) getOrNew() *Model {
	model := a.get()
	if model == nil {
		model = &Model{
			markDirty: a.markDirty,
		}
		a.mx.Lock()
		a.model = model
		a.mx.Unlock()
	}

	return model
}

// markDirty is called with a.mx held
func (a *App) markDirty() {
	a.isDirty = true
}

func (a *App) Export(state *types.AppState) {
	state.GenesisTime = a.GetGenesisTime()
	state.TxCount = a.GetTxCount()
	state.TotalTax = a.GetTotalTax().Dec()
	state.TotalPaid = a.GetTotalPaid().Dec()
	state.Forfeited = a.GetForfeited().Dec()
	state.Dust = a.GetDust().Dec()
}
