package bus

import (
	"github.com/MinterTeam/minter-lottery/core/events"
)

type Bus struct {
	accounts Accounts
	pools    Pools
	checker  Checker
	events   events.IEventsDB
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetAccounts(accounts Accounts) {
	b.accounts = accounts
}

func (b *Bus) Accounts() Accounts {
	return b.accounts
}

func (b *Bus) SetPools(pools Pools) {
	b.pools = pools
}

func (b *Bus) Pools() Pools {
	return b.pools
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}

func (b *Bus) SetEvents(events events.IEventsDB) {
	b.events = events
}

func (b *Bus) Events() events.IEventsDB {
	return b.events
}
