package checker

import (
	"math/big"
	"sync"

	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Checker tracks every credit and debit made through the ledger since the last reset.
// Transfers only move funds, so the two sums must match.
type Checker struct {
	credits *big.Int
	debits  *big.Int

	bus  *bus.Bus
	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		credits: big.NewInt(0),
		debits:  big.NewInt(0),
		bus:     bus,
	}
	bus.SetChecker(checker)

	return checker
}

func (c *Checker) AddCredit(value *uint256.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.credits.Add(c.credits, value.ToBig())
}

func (c *Checker) AddDebit(value *uint256.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.debits.Add(c.debits, value.ToBig())
}

// Reset resets checker data
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.credits = big.NewInt(0)
	c.debits = big.NewInt(0)
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.credits.Cmp(c.debits) != 0 {
		return errors.Errorf("invariants error on supply: credited %s, debited %s", c.credits, c.debits)
	}

	vault := c.bus.Accounts().GetBalance(types.LotteryVaultAddress)
	pools := c.bus.Pools().Total()
	if vault.Lt(pools) {
		return errors.Errorf("invariants error on lottery vault: balance %s, pools %s", vault.Dec(), pools.Dec())
	}

	return nil
}
