package token

import (
	"sync"
	"time"

	"github.com/MinterTeam/minter-lottery/core/code"
	eventsdb "github.com/MinterTeam/minter-lottery/core/events"
	"github.com/MinterTeam/minter-lottery/core/lottery"
	"github.com/MinterTeam/minter-lottery/core/state"
	"github.com/MinterTeam/minter-lottery/core/statistics"
	"github.com/MinterTeam/minter-lottery/core/transaction"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/MinterTeam/minter-lottery/version"
	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Token owns the ledger, the pools and the holders registry. Every call is
// serialized behind one lock, reads included.
type Token struct {
	state    *state.State
	executor *transaction.Executor
	params   types.LotteryParams

	clock    clockwork.Clock
	lastTime uint64
	seeds    lottery.SeedSource

	logger    log.Logger
	statistic *statistics.Data

	lock sync.Mutex
}

type Option func(t *Token)

func WithClock(clock clockwork.Clock) Option {
	return func(t *Token) {
		t.clock = clock
	}
}

func WithSeedSource(seeds lottery.SeedSource) Option {
	return func(t *Token) {
		t.seeds = seeds
	}
}

func WithLogger(logger log.Logger) Option {
	return func(t *Token) {
		t.logger = logger
	}
}

func WithStatistics(statistic *statistics.Data) Option {
	return func(t *Token) {
		t.statistic = statistic
	}
}

// NewToken wraps st. By default time comes from the system clock and seeds from
// the hash of the last committed state.
func NewToken(st *state.State, opts ...Option) *Token {
	t := &Token{
		state:  st,
		params: st.Params(),
		clock:  clockwork.NewRealClock(),
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.seeds == nil {
		t.seeds = lottery.NewStateSeed(st.Tree().Hash, st.App.GetTxCount)
	}
	t.executor = transaction.NewExecutor(t.params, t.seeds)
	t.lastTime = st.App.GetGenesisTime()

	return t
}

// now returns the clock time in unix seconds, never less than a previously returned value.
func (t *Token) now() uint64 {
	now := t.clock.Now().Unix()
	if now < 0 || uint64(now) < t.lastTime {
		return t.lastTime
	}

	t.lastTime = uint64(now)
	return t.lastTime
}

// InitChain imports genesis into an empty state and commits it as the first version.
func (t *Token) InitChain(genesis types.AppState) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.state.Height() != 0 {
		return errors.Errorf("state is already initialized at height %d", t.state.Height())
	}

	if err := t.state.Import(genesis); err != nil {
		return err
	}
	if genesis.GenesisTime > t.lastTime {
		t.lastTime = genesis.GenesisTime
	}

	if _, _, err := t.commit(); err != nil {
		return err
	}

	t.logger.Info("Genesis imported", "accounts", len(genesis.Accounts), "holders", t.state.Holders.Count())
	t.updateGauges()

	return nil
}

// Transfer moves amount from caller to recipient.
func (t *Token) Transfer(caller, recipient types.Address, amount *uint256.Int) (*transaction.Receipt, error) {
	return t.transfer(transaction.Tx{
		Caller: caller,
		From:   caller,
		To:     recipient,
		Amount: amount,
	})
}

// TransferFrom moves amount from sender to recipient spending the allowance sender granted to caller.
func (t *Token) TransferFrom(caller, sender, recipient types.Address, amount *uint256.Int) (*transaction.Receipt, error) {
	return t.transfer(transaction.Tx{
		Caller:    caller,
		From:      sender,
		To:        recipient,
		Amount:    amount,
		Delegated: true,
	})
}

func (t *Token) transfer(tx transaction.Tx) (*transaction.Receipt, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	receipt, err := t.executor.Transfer(t.state, tx, t.now())
	t.statistic.AddTransfer(code.Of(err))
	if err != nil {
		t.logger.Debug("Transfer rejected", "from", tx.From, "to", tx.To, "err", err)
		return nil, err
	}

	t.logger.Debug("Transfer", "from", tx.From, "to", tx.To, "amount", receipt.Split.Amount.Dec(), "tax", receipt.Split.Tax.Dec())
	for _, payout := range receipt.Payouts {
		t.logger.Info("Winner paid", "cadence", payout.Cadence, "winner", payout.Winner, "amount", payout.Amount.Dec(), "bonus", payout.LargeHolderBonus)
		t.statistic.AddPayout(payout.Cadence)
	}

	t.statistic.AddTax(receipt.Split.Tax)
	t.updateGauges()

	return receipt, nil
}

// Approve sets the allowance of spender over owner's balance.
func (t *Token) Approve(owner, spender types.Address, value *uint256.Int) (*transaction.Receipt, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.executor.Approve(t.state, owner, spender, value)
}

func (t *Token) IsEligibleForLottery(address types.Address) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state.Holders.IsEligible(address)
}

func (t *Token) GetPools() (short, medium, long *uint256.Int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state.Pools.GetAmount(types.CadenceShort),
		t.state.Pools.GetAmount(types.CadenceMedium),
		t.state.Pools.GetAmount(types.CadenceLong)
}

func (t *Token) GetLastDistributions() (short, medium, long uint64) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state.Pools.GetLastDistribution(types.CadenceShort),
		t.state.Pools.GetLastDistribution(types.CadenceMedium),
		t.state.Pools.GetLastDistribution(types.CadenceLong)
}

func (t *Token) BalanceOf(address types.Address) *uint256.Int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state.Accounts.GetBalance(address)
}

func (t *Token) Allowance(owner, spender types.Address) *uint256.Int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state.Accounts.GetAllowance(owner, spender)
}

func (t *Token) Holders() []types.Address {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state.Holders.List()
}

type Status struct {
	Version     string
	Height      int64
	Time        uint64
	GenesisTime uint64
	TxCount     uint64
	Holders     int
	TotalTax    *uint256.Int
	TotalPaid   *uint256.Int
	Forfeited   *uint256.Int
	Dust        *uint256.Int
	Vault       *uint256.Int
}

func (t *Token) Status() Status {
	t.lock.Lock()
	defer t.lock.Unlock()

	return Status{
		Version:     version.Version,
		Height:      t.state.Height(),
		Time:        t.lastTime,
		GenesisTime: t.state.App.GetGenesisTime(),
		TxCount:     t.state.App.GetTxCount(),
		Holders:     t.state.Holders.Count(),
		TotalTax:    t.state.App.GetTotalTax(),
		TotalPaid:   t.state.App.GetTotalPaid(),
		Forfeited:   t.state.App.GetForfeited(),
		Dust:        t.state.App.GetDust(),
		Vault:       t.state.Accounts.GetBalance(types.LotteryVaultAddress),
	}
}

// Commit saves the state as a new version and stores the events emitted since the previous commit under it.
func (t *Token) Commit() ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.commit()
}

func (t *Token) commit() ([]byte, int64, error) {
	start := time.Now()

	hash, err := t.state.Commit()
	if err != nil {
		return nil, 0, errors.Wrap(err, "commit state")
	}

	height := t.state.Height()
	if events := t.state.Events(); events != nil {
		if err := events.CommitEvents(uint32(height)); err != nil {
			return hash, height, errors.Wrapf(err, "commit events at %d", height)
		}
	}

	t.statistic.SetCommit(height, start, time.Now())
	t.logger.Debug("Committed", "height", height, "hash", hash)

	return hash, height, nil
}

// Events returns the events committed with version height.
func (t *Token) Events(height uint32) eventsdb.Events {
	events := t.state.Events()
	if events == nil {
		return nil
	}

	return events.LoadEvents(height)
}

// CheckState returns a read-only view of a committed version, the latest one for height 0.
func (t *Token) CheckState(height uint64) (*state.CheckState, error) {
	if height == 0 {
		t.lock.Lock()
		height = uint64(t.state.Height())
		t.lock.Unlock()
	}

	return t.state.CheckStateAtHeight(height)
}

// Export dumps a committed version as genesis.
func (t *Token) Export(height uint64) (types.AppState, error) {
	cState, err := t.CheckState(height)
	if err != nil {
		return types.AppState{}, err
	}

	return cState.Export(), nil
}

func (t *Token) updateGauges() {
	for _, cadence := range types.Cadences {
		t.statistic.SetPool(cadence, t.state.Pools.GetAmount(cadence))
	}
	t.statistic.SetHolders(t.state.Holders.Count())
}
