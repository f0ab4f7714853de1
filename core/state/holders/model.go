package holders

import (
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
)

// Model keeps the eligibility flag apart from the balance snapshot:
// a zero snapshot never means "not eligible" by itself.
type Model struct {
	Eligible bool
	Balance  []byte
	Index    uint64

	address   types.Address
	markDirty func(types.Address)
}

func (m *Model) snapshot() *uint256.Int {
	return new(uint256.Int).SetBytes(m.Balance)
}

func (m *Model) setSnapshot(balance *uint256.Int) {
	m.Balance = balance.Bytes()
	m.markDirty(m.address)
}

func (m *Model) setIndex(index uint64) {
	m.Index = index
	m.markDirty(m.address)
}

func (m *Model) reset() {
	m.Eligible = false
	m.Balance = nil
	m.Index = 0
	m.markDirty(m.address)
}
