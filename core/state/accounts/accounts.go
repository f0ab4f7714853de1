package accounts

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/cosmos/iavl"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
)

const (
	mainPrefix      = byte('a')
	allowancePrefix = byte('w')
)

var cdc = amino.NewCodec()

type RAccounts interface {
	Export(state *types.AppState)
	GetBalance(address types.Address) *uint256.Int
	GetAllowance(owner, spender types.Address) *uint256.Int
}

// Accounts is the balance and allowance ledger.
type Accounts struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	allowances      map[allowanceKey]*uint256.Int
	dirtyAllowances map[allowanceKey]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAccounts(stateBus *bus.Bus, db *iavl.ImmutableTree) *Accounts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	accounts := &Accounts{
		db:              immutableTree,
		bus:             stateBus,
		list:            map[types.Address]*Model{},
		dirty:           map[types.Address]struct{}{},
		allowances:      map[allowanceKey]*uint256.Int{},
		dirtyAllowances: map[allowanceKey]struct{}{},
	}
	accounts.bus.SetAccounts(accounts)

	return accounts
}

func (a *Accounts) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Accounts) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Accounts) Commit(db *iavl.MutableTree) error {
	for _, address := range a.getOrderedDirtyAccounts() {
		account := a.get(address)

		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		path := getBalancePath(address)
		if account.isEmpty() {
			db.Remove(path)
			continue
		}

		data, err := cdc.MarshalBinaryBare(account)
		if err != nil {
			return errors.Wrapf(err, "can't encode object at %s", address)
		}
		db.Set(path, data)
	}

	for _, key := range a.getOrderedDirtyAllowances() {
		a.lock.Lock()
		value := a.allowances[key]
		delete(a.dirtyAllowances, key)
		a.lock.Unlock()

		path := getAllowancePath(key.owner, key.spender)
		if value == nil || value.IsZero() {
			db.Remove(path)
			continue
		}
		db.Set(path, value.Bytes())
	}

	return nil
}

// GetBalance returns a copy of the balance of address
func (a *Accounts) GetBalance(address types.Address) *uint256.Int {
	account := a.get(address)
	if account == nil {
		return new(uint256.Int)
	}

	return account.getBalance()
}

// SetBalance overwrites balance, used by genesis import only
func (a *Accounts) SetBalance(address types.Address, value *uint256.Int) {
	a.getOrNew(address).setBalance(value)
}

// AddBalance credits address. Overflow is an invariant violation: total supply fits into 256 bits.
func (a *Accounts) AddBalance(address types.Address, amount *uint256.Int) {
	account := a.getOrNew(address)
	balance, overflow := new(uint256.Int).AddOverflow(account.getBalance(), amount)
	if overflow {
		panic(fmt.Sprintf("balance of %s overflows", address))
	}

	account.setBalance(balance)
	if checker := a.bus.Checker(); checker != nil {
		checker.AddCredit(amount)
	}
}

// SubBalance debits address, failing when the balance is lower than amount
func (a *Accounts) SubBalance(address types.Address, amount *uint256.Int) error {
	account := a.getOrNew(address)
	balance, underflow := new(uint256.Int).SubOverflow(account.getBalance(), amount)
	if underflow {
		return code.NewInsufficientFunds(address.String(), amount.Dec(), account.getBalance().Dec())
	}

	account.setBalance(balance)
	if checker := a.bus.Checker(); checker != nil {
		checker.AddDebit(amount)
	}
	return nil
}

func (a *Accounts) GetAllowance(owner, spender types.Address) *uint256.Int {
	key := allowanceKey{owner: owner, spender: spender}

	a.lock.RLock()
	value, ok := a.allowances[key]
	a.lock.RUnlock()
	if ok {
		return new(uint256.Int).Set(value)
	}

	value = new(uint256.Int)
	if tree := a.immutableTree(); tree != nil {
		_, enc := tree.Get(getAllowancePath(owner, spender))
		value.SetBytes(enc)
	}

	a.lock.Lock()
	a.allowances[key] = value
	a.lock.Unlock()

	return new(uint256.Int).Set(value)
}

func (a *Accounts) SetAllowance(owner, spender types.Address, value *uint256.Int) {
	key := allowanceKey{owner: owner, spender: spender}

	a.lock.Lock()
	defer a.lock.Unlock()

	a.allowances[key] = new(uint256.Int).Set(value)
	a.dirtyAllowances[key] = struct{}{}
}

// ConsumeAllowance decreases allowance granted by owner to spender
func (a *Accounts) ConsumeAllowance(owner, spender types.Address, amount *uint256.Int) error {
	allowance := a.GetAllowance(owner, spender)
	rest, underflow := new(uint256.Int).SubOverflow(allowance, amount)
	if underflow {
		return code.NewInsufficientAllowance(owner.String(), spender.String(), amount.Dec(), allowance.Dec())
	}

	a.SetAllowance(owner, spender, rest)
	return nil
}

func (a *Accounts) get(address types.Address) *Model {
	if account := a.getFromMap(address); account != nil {
		return account
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(getBalancePath(address))
	if len(enc) == 0 {
		return nil
	}

	account := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, account); err != nil {
		panic(fmt.Sprintf("failed to decode account at address %s: %s", address.String(), err))
	}

	account.address = address
	account.markDirty = a.markDirty

	a.setToMap(address, account)

	return account
}

func (a *Accounts) getOrNew(address types.Address) *Model {
	account := a.get(address)
	if account == nil {
		account = &Model{
			address:   address,
			markDirty: a.markDirty,
		}
		a.setToMap(address, account)
	}

	return account
}

func (a *Accounts) markDirty(address types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Accounts) getOrderedDirtyAccounts() []types.Address {
	a.lock.RLock()
	keys := make([]types.Address, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) == 1
	})

	return keys
}

func (a *Accounts) getOrderedDirtyAllowances() []allowanceKey {
	a.lock.RLock()
	keys := make([]allowanceKey, 0, len(a.dirtyAllowances))
	for k := range a.dirtyAllowances {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		if c := keys[i].owner.Compare(keys[j].owner); c != 0 {
			return c == 1
		}
		return keys[i].spender.Compare(keys[j].spender) == 1
	})

	return keys
}

func (a *Accounts) Export(state *types.AppState) {
	a.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		address := types.BytesToAddress(key[1:])
		balance := a.GetBalance(address)
		if balance.IsZero() {
			return false
		}

		state.Accounts = append(state.Accounts, types.Account{
			Address: address,
			Balance: balance.Dec(),
		})

		return false
	})

	a.immutableTree().IterateRange([]byte{allowancePrefix}, []byte{allowancePrefix + 1}, true, func(key []byte, value []byte) bool {
		owner := types.BytesToAddress(key[1 : 1+types.AddressLength])
		spender := types.BytesToAddress(key[1+types.AddressLength:])
		allowance := a.GetAllowance(owner, spender)
		if allowance.IsZero() {
			return false
		}

		state.Allowances = append(state.Allowances, types.Allowance{
			Owner:   owner,
			Spender: spender,
			Value:   allowance.Dec(),
		})

		return false
	})
}

func (a *Accounts) getFromMap(address types.Address) *Model {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.list[address]
}

func (a *Accounts) setToMap(address types.Address, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}

func getBalancePath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}

func getAllowancePath(owner, spender types.Address) []byte {
	path := make([]byte, 0, 1+2*types.AddressLength)
	path = append(path, allowancePrefix)
	path = append(path, owner.Bytes()...)
	return append(path, spender.Bytes()...)
}
