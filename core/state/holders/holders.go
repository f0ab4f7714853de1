package holders

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/cosmos/iavl"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
)

const (
	mainPrefix  = byte('h')
	orderPrefix = byte('o')
	modelPrefix = byte('m')
)

var cdc = amino.NewCodec()

type RHolders interface {
	Export(state *types.AppState)
	IsEligible(address types.Address) bool
	GetSnapshot(address types.Address) *uint256.Int
	List() []types.Address
	Count() int
}

// Holders is the registry of accounts with balance at or above the minimum.
// The order of the list is the order candidates are drawn from.
type Holders struct {
	order       []types.Address
	orderLoaded bool
	orderDirty  bool

	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	threshold *uint256.Int

	bus *bus.Bus
	db  atomic.Value

	lock sync.RWMutex
}

func NewHolders(stateBus *bus.Bus, db *iavl.ImmutableTree, minEligibleBalance *uint256.Int) *Holders {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Holders{
		bus:       stateBus,
		db:        immutableTree,
		threshold: new(uint256.Int).Set(minEligibleBalance),
		list:      map[types.Address]*Model{},
		dirty:     map[types.Address]struct{}{},
	}
}

func (h *Holders) immutableTree() *iavl.ImmutableTree {
	db := h.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (h *Holders) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	h.db.Store(immutableTree)
}

func (h *Holders) Commit(db *iavl.MutableTree) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.orderDirty {
		h.orderDirty = false

		data := make([]byte, 0, len(h.order)*types.AddressLength)
		for _, address := range h.order {
			data = append(data, address.Bytes()...)
		}

		if len(data) == 0 {
			db.Remove(getOrderPath())
		} else {
			db.Set(getOrderPath(), data)
		}
	}

	dirty := make([]types.Address, 0, len(h.dirty))
	for address := range h.dirty {
		dirty = append(dirty, address)
	}
	sort.Slice(dirty, func(i, j int) bool {
		return dirty[i].Compare(dirty[j]) == -1
	})

	for _, address := range dirty {
		model := h.list[address]
		delete(h.dirty, address)

		path := getModelPath(address)
		if !model.Eligible {
			delete(h.list, address)
			db.Remove(path)
			continue
		}

		data, err := cdc.MarshalBinaryBare(model)
		if err != nil {
			return errors.Wrapf(err, "can't encode holder %s", address)
		}
		db.Set(path, data)
	}

	return nil
}

// Update syncs membership and snapshot of address with its current ledger balance.
func (h *Holders) Update(address types.Address) {
	if types.IsSystemAddress(address) {
		return
	}

	balance := h.bus.Accounts().GetBalance(address)

	h.lock.Lock()
	defer h.lock.Unlock()

	model := h.get(address)
	eligible := !balance.Lt(h.threshold)

	switch {
	case eligible && (model == nil || !model.Eligible):
		h.add(address, balance)
	case !eligible && model != nil && model.Eligible:
		h.remove(model)
	case eligible:
		model.setSnapshot(balance)
	}
}

// Remove drops address from the list by moving the last element into its slot.
func (h *Holders) Remove(address types.Address) {
	h.lock.Lock()
	defer h.lock.Unlock()

	model := h.get(address)
	if model == nil || !model.Eligible {
		return
	}

	h.remove(model)
}

func (h *Holders) IsEligible(address types.Address) bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	model := h.get(address)
	return model != nil && model.Eligible
}

// GetSnapshot returns balance recorded at the last update, zero for not eligible accounts.
func (h *Holders) GetSnapshot(address types.Address) *uint256.Int {
	h.lock.Lock()
	defer h.lock.Unlock()

	model := h.get(address)
	if model == nil || !model.Eligible {
		return new(uint256.Int)
	}

	return model.snapshot()
}

// List returns a copy of the ordered eligible set.
func (h *Holders) List() []types.Address {
	h.lock.Lock()
	defer h.lock.Unlock()

	order := h.getOrder()
	list := make([]types.Address, len(order))
	copy(list, order)

	return list
}

func (h *Holders) Count() int {
	h.lock.Lock()
	defer h.lock.Unlock()

	return len(h.getOrder())
}

func (h *Holders) Export(state *types.AppState) {
	state.Holders = append(state.Holders, h.List()...)
}

func (h *Holders) add(address types.Address, balance *uint256.Int) {
	order := h.getOrder()

	model := h.list[address]
	if model == nil {
		model = &Model{
			address:   address,
			markDirty: h.markDirty,
		}
		h.list[address] = model
	}

	model.Eligible = true
	model.setIndex(uint64(len(order)))
	model.setSnapshot(balance)

	h.order = append(order, address)
	h.orderDirty = true
}

func (h *Holders) remove(model *Model) {
	order := h.getOrder()
	index := model.Index
	last := uint64(len(order) - 1)

	if order[index] != model.address {
		panic(fmt.Sprintf("holders index of %s is broken: %d points to %s", model.address, index, order[index]))
	}

	if index != last {
		moved := order[last]
		order[index] = moved
		h.get(moved).setIndex(index)
	}

	h.order = order[:last]
	h.orderDirty = true

	model.reset()
}

func (h *Holders) get(address types.Address) *Model {
	if model, ok := h.list[address]; ok {
		return model
	}

	tree := h.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(getModelPath(address))
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode holder %s: %s", address, err))
	}

	model.address = address
	model.markDirty = h.markDirty
	h.list[address] = model

	return model
}

func (h *Holders) getOrder() []types.Address {
	if h.orderLoaded {
		return h.order
	}
	h.orderLoaded = true

	tree := h.immutableTree()
	if tree == nil {
		return h.order
	}

	_, enc := tree.Get(getOrderPath())
	if len(enc)%types.AddressLength != 0 {
		panic(fmt.Sprintf("failed to decode holders list: length %d", len(enc)))
	}

	h.order = make([]types.Address, 0, len(enc)/types.AddressLength)
	for i := 0; i < len(enc); i += types.AddressLength {
		h.order = append(h.order, types.BytesToAddress(enc[i:i+types.AddressLength]))
	}

	return h.order
}

// markDirty is called with h.lock held
func (h *Holders) markDirty(address types.Address) {
	h.dirty[address] = struct{}{}
}

func getOrderPath() []byte {
	return []byte{mainPrefix, orderPrefix}
}

func getModelPath(address types.Address) []byte {
	return append([]byte{mainPrefix, modelPrefix}, address.Bytes()...)
}
