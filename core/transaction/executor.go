package transaction

import (
	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/MinterTeam/minter-lottery/core/distribution"
	eventsdb "github.com/MinterTeam/minter-lottery/core/events"
	"github.com/MinterTeam/minter-lottery/core/lottery"
	"github.com/MinterTeam/minter-lottery/core/state"
	"github.com/MinterTeam/minter-lottery/core/tax"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Tx is a single transfer request. Delegated transfers spend the allowance From granted to Caller.
type Tx struct {
	Caller    types.Address
	From      types.Address
	To        types.Address
	Amount    *uint256.Int
	Delegated bool
}

type Receipt struct {
	Split   *tax.Split
	Payouts []distribution.Payout
	Events  eventsdb.Events
}

type Executor struct {
	splitter  *tax.Splitter
	scheduler *distribution.Scheduler
}

func NewExecutor(params types.LotteryParams, seeds lottery.SeedSource) *Executor {
	return &Executor{
		splitter:  tax.NewSplitter(params),
		scheduler: distribution.NewScheduler(params, lottery.NewSelector(params), seeds),
	}
}

// Transfer runs the whole orchestration unit: split, ledger movement, eligibility
// update of sender and recipient, and the cadence check. An error is returned only
// before the first mutation.
func (e *Executor) Transfer(context *state.State, tx Tx, now uint64) (*Receipt, error) {
	split, err := e.check(context, tx)
	if err != nil {
		return nil, err
	}

	if tx.Delegated {
		if err := context.Accounts.ConsumeAllowance(tx.From, tx.Caller, tx.Amount); err != nil {
			panic(err)
		}
	}
	if err := context.Accounts.SubBalance(tx.From, tx.Amount); err != nil {
		panic(err)
	}
	context.Accounts.AddBalance(tx.To, split.Net)
	context.Accounts.AddBalance(types.LotteryVaultAddress, split.Tax)
	for _, cadence := range types.Cadences {
		context.Pools.Add(cadence, split.Share(cadence))
	}

	context.App.AddTotalTax(split.Tax)
	context.App.AddDust(split.Remainder)
	context.App.IncrementTxCount()

	context.Holders.Update(tx.From)
	context.Holders.Update(tx.To)

	receipt := &Receipt{Split: split}

	transferEvent := &eventsdb.TransferEvent{
		From:   tx.From,
		To:     tx.To,
		Amount: split.Amount.Dec(),
		Tax:    split.Tax.Dec(),
	}
	if tx.Delegated {
		transferEvent.Spender = tx.Caller
	}
	receipt.Events = append(receipt.Events, transferEvent)

	receipt.Payouts = e.scheduler.Run(now, tx.Caller, &ledger{context})
	for _, payout := range receipt.Payouts {
		receipt.Events = append(receipt.Events, &eventsdb.WinnerPaidEvent{
			Cadence:          payout.Cadence.String(),
			Winner:           payout.Winner,
			Amount:           payout.Amount.Dec(),
			Time:             payout.Time,
			LargeHolderBonus: payout.LargeHolderBonus,
		})
	}

	if err := context.Check(); err != nil {
		panic(err)
	}

	emit(context, receipt.Events)

	return receipt, nil
}

func (e *Executor) check(context *state.State, tx Tx) (*tax.Split, error) {
	if tx.To.IsZero() {
		return nil, code.NewWrongAddress(tx.To.String(), "empty recipient")
	}
	if types.IsSystemAddress(tx.To) {
		return nil, code.NewTransferToVault(tx.To.String())
	}
	if types.IsSystemAddress(tx.From) {
		return nil, code.NewTransferToVault(tx.From.String())
	}
	if tx.Amount == nil {
		return nil, code.NewDecodeError("amount", errors.New("empty value"))
	}

	balance := context.Accounts.GetBalance(tx.From)
	if balance.Lt(tx.Amount) {
		return nil, code.NewInsufficientFunds(tx.From.String(), tx.Amount.Dec(), balance.Dec())
	}

	if tx.Delegated {
		allowance := context.Accounts.GetAllowance(tx.From, tx.Caller)
		if allowance.Lt(tx.Amount) {
			return nil, code.NewInsufficientAllowance(tx.From.String(), tx.Caller.String(), tx.Amount.Dec(), allowance.Dec())
		}
	}

	split, err := e.splitter.Split(tx.Amount)
	if err != nil {
		return nil, err
	}

	recipient := context.Accounts.GetBalance(tx.To)
	if tx.To == tx.From {
		recipient.Sub(recipient, tx.Amount)
	}
	if _, overflow := new(uint256.Int).AddOverflow(recipient, split.Net); overflow {
		return nil, code.NewArithmeticOverflow("recipient balance")
	}

	vault := context.Accounts.GetBalance(types.LotteryVaultAddress)
	if _, overflow := new(uint256.Int).AddOverflow(vault, split.Tax); overflow {
		return nil, code.NewArithmeticOverflow("vault balance")
	}

	for _, cadence := range types.Cadences {
		if _, overflow := new(uint256.Int).AddOverflow(context.Pools.GetAmount(cadence), split.Share(cadence)); overflow {
			return nil, code.NewArithmeticOverflow(cadence.String() + " pool")
		}
	}

	return split, nil
}

// Approve sets the allowance of spender over owner's balance.
func (e *Executor) Approve(context *state.State, owner, spender types.Address, value *uint256.Int) (*Receipt, error) {
	if spender.IsZero() {
		return nil, code.NewWrongAddress(spender.String(), "empty spender")
	}
	if types.IsSystemAddress(owner) {
		return nil, code.NewTransferToVault(owner.String())
	}
	if value == nil {
		return nil, code.NewDecodeError("value", errors.New("empty value"))
	}

	context.Accounts.SetAllowance(owner, spender, value)

	receipt := &Receipt{Events: eventsdb.Events{&eventsdb.ApprovalEvent{
		Owner:   owner,
		Spender: spender,
		Value:   value.Dec(),
	}}}
	emit(context, receipt.Events)

	return receipt, nil
}

func emit(context *state.State, events eventsdb.Events) {
	store := context.Events()
	if store == nil {
		return
	}

	for _, event := range events {
		store.AddEvent(event)
	}
}

// ledger pays pools out of the lottery vault.
type ledger struct {
	*state.State
}

func (l *ledger) GetAmount(cadence types.Cadence) *uint256.Int {
	return l.Pools.GetAmount(cadence)
}

func (l *ledger) GetLastDistribution(cadence types.Cadence) uint64 {
	return l.Pools.GetLastDistribution(cadence)
}

func (l *ledger) Reset(cadence types.Cadence, now uint64) {
	l.Pools.Reset(cadence, now)
}

func (l *ledger) List() []types.Address {
	return l.Holders.List()
}

func (l *ledger) GetBalance(address types.Address) *uint256.Int {
	return l.Accounts.GetBalance(address)
}

func (l *ledger) Pay(_ types.Cadence, winner types.Address, amount *uint256.Int) {
	if err := l.Accounts.SubBalance(types.LotteryVaultAddress, amount); err != nil {
		panic(err)
	}
	l.Accounts.AddBalance(winner, amount)
	l.App.AddTotalPaid(amount)
	l.Holders.Update(winner)
}

func (l *ledger) Forfeit(_ types.Cadence, amount *uint256.Int) {
	l.App.AddForfeited(amount)
}
