package accounts

import (
	"sync"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
)

type Model struct {
	Balance []byte

	address types.Address

	markDirty func(types.Address)
	lock      sync.RWMutex
}

func (model *Model) getBalance() *uint256.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return new(uint256.Int).SetBytes(model.Balance)
}

func (model *Model) setBalance(value *uint256.Int) {
	model.lock.Lock()
	model.Balance = value.Bytes()
	model.lock.Unlock()

	model.markDirty(model.address)
}

func (model *Model) isEmpty() bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return len(model.Balance) == 0
}

type allowanceKey struct {
	owner   types.Address
	spender types.Address
}
