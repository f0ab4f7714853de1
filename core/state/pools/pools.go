package pools

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

const mainPrefix = byte('p')

var cdc = amino.NewCodec()

type RPools interface {
	Export(state *types.AppState)
	GetAmount(cadence types.Cadence) *uint256.Int
	GetLastDistribution(cadence types.Cadence) uint64
	Total() *uint256.Int
}

type Model struct {
	Amount           []byte
	LastDistribution uint64
}

func (m *Model) amount() *uint256.Int {
	return new(uint256.Int).SetBytes(m.Amount)
}

// Pools keeps tax accumulators of the three cadences.
type Pools struct {
	list  [types.CadencesCount]*Model
	dirty map[types.Cadence]struct{}

	bus *bus.Bus
	db  atomic.Value

	lock sync.RWMutex
}

func NewPools(stateBus *bus.Bus, db *iavl.ImmutableTree) *Pools {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	pools := &Pools{
		bus:   stateBus,
		db:    immutableTree,
		dirty: map[types.Cadence]struct{}{},
	}
	pools.bus.SetPools(pools)

	return pools
}

func (p *Pools) immutableTree() *iavl.ImmutableTree {
	db := p.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (p *Pools) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	p.db.Store(immutableTree)
}

func (p *Pools) Commit(db *iavl.MutableTree) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, cadence := range types.Cadences {
		if _, ok := p.dirty[cadence]; !ok {
			continue
		}
		delete(p.dirty, cadence)

		data, err := cdc.MarshalBinaryBare(p.list[cadence])
		if err != nil {
			return errors.Wrapf(err, "can't encode %s pool", cadence)
		}
		db.Set(getPath(cadence), data)
	}

	return nil
}

// Create initialises a pool at genesis.
func (p *Pools) Create(cadence types.Cadence, amount *uint256.Int, lastDistribution uint64) {
	p.lock.Lock()
	defer p.lock.Unlock()

	model := p.getOrNew(cadence)
	model.Amount = amount.Bytes()
	model.LastDistribution = lastDistribution
	p.markDirty(cadence)
}

func (p *Pools) GetAmount(cadence types.Cadence) *uint256.Int {
	p.lock.Lock()
	defer p.lock.Unlock()

	model := p.get(cadence)
	if model == nil {
		return new(uint256.Int)
	}

	return model.amount()
}

func (p *Pools) GetLastDistribution(cadence types.Cadence) uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()

	model := p.get(cadence)
	if model == nil {
		return 0
	}

	return model.LastDistribution
}

// Add credits the pool. Overflow panics: pools are backed by the vault balance.
func (p *Pools) Add(cadence types.Cadence, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	model := p.getOrNew(cadence)
	sum, overflow := new(uint256.Int).AddOverflow(model.amount(), amount)
	if overflow {
		panic(fmt.Sprintf("%s pool overflows", cadence))
	}

	model.Amount = sum.Bytes()
	p.markDirty(cadence)
}

// Reset zeroes the pool and stamps the distribution time.
func (p *Pools) Reset(cadence types.Cadence, now uint64) {
	p.lock.Lock()
	defer p.lock.Unlock()

	model := p.getOrNew(cadence)
	model.Amount = nil
	model.LastDistribution = now
	p.markDirty(cadence)
}

// Total sums all three pools.
func (p *Pools) Total() *uint256.Int {
	total := new(uint256.Int)
	for _, cadence := range types.Cadences {
		if _, overflow := total.AddOverflow(total, p.GetAmount(cadence)); overflow {
			panic("pools total overflows")
		}
	}

	return total
}

func (p *Pools) Export(state *types.AppState) {
	for _, cadence := range types.Cadences {
		p.lock.Lock()
		model := p.get(cadence)
		p.lock.Unlock()
		if model == nil {
			continue
		}

		state.Pools = append(state.Pools, types.Pool{
			Cadence:          cadence.String(),
			Amount:           model.amount().Dec(),
			LastDistribution: model.LastDistribution,
		})
	}
}

func (p *Pools) get(cadence types.Cadence) *Model {
	if model := p.list[cadence]; model != nil {
		return model
	}

	tree := p.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(getPath(cadence))
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode %s pool: %s", cadence, err))
	}

	p.list[cadence] = model

	return model
}

func (p *Pools) getOrNew(cadence types.Cadence) *Model {
	model := p.get(cadence)
	if model == nil {
		model = &Model{}
		p.list[cadence] = model
	}

	return model
}

// markDirty is called with p.lock held
func (p *Pools) markDirty(cadence types.Cadence) {
	p.dirty[cadence] = struct{}{}
}

func getPath(cadence types.Cadence) []byte {
	return []byte{mainPrefix, byte(cadence)}
}
