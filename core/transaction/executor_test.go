package transaction

import (
	"testing"

	"github.com/MinterTeam/minter-lottery/core/code"
	eventsdb "github.com/MinterTeam/minter-lottery/core/events"
	"github.com/MinterTeam/minter-lottery/core/lottery"
	"github.com/MinterTeam/minter-lottery/core/state"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

const genesisTime = 1600000000

var (
	alice = types.HexToAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	bob   = types.HexToAddress("Mx0c5d5f646556d663e1eaf87150d987b67f5e3f41")
	carol = types.HexToAddress("Mx1f8e2b3c4d5a6978a0b1c2d3e4f5061728394a5b")
)

func getState(t *testing.T) *state.State {
	t.Helper()

	s, err := state.NewState(0, db.NewMemDB(), eventsdb.NewEventsStore(db.NewMemDB()), 1024, 0, types.DefaultLotteryParams())
	require.NoError(t, err)
	require.NoError(t, s.Import(types.AppState{
		GenesisTime: genesisTime,
		Accounts: []types.Account{
			{Address: alice, Balance: "100000000"},
		},
	}))

	return s
}

func newExecutor() *Executor {
	return NewExecutor(types.DefaultLotteryParams(), lottery.FixedSeed("seed"))
}

func TestExecutor_Transfer(t *testing.T) {
	t.Parallel()
	s := getState(t)

	receipt, err := newExecutor().Transfer(s, Tx{Caller: alice, From: alice, To: bob, Amount: uint256.NewInt(10000)}, genesisTime+1)
	require.NoError(t, err)

	assert.Equal(t, uint64(500), receipt.Split.Tax.Uint64())
	assert.Equal(t, uint64(9500), receipt.Split.Net.Uint64())
	assert.Empty(t, receipt.Payouts)

	assert.Equal(t, uint64(100000000-10000), s.Accounts.GetBalance(alice).Uint64())
	assert.Equal(t, uint64(9500), s.Accounts.GetBalance(bob).Uint64())
	assert.Equal(t, uint64(500), s.Accounts.GetBalance(types.LotteryVaultAddress).Uint64())

	assert.Equal(t, uint64(250), s.Pools.GetAmount(types.CadenceShort).Uint64())
	assert.Equal(t, uint64(150), s.Pools.GetAmount(types.CadenceMedium).Uint64())
	assert.Equal(t, uint64(100), s.Pools.GetAmount(types.CadenceLong).Uint64())

	assert.True(t, s.Holders.IsEligible(bob))
	assert.True(t, s.Holders.IsEligible(alice))
	assert.Equal(t, uint64(1), s.App.GetTxCount())
	assert.Equal(t, uint64(500), s.App.GetTotalTax().Uint64())

	pending := s.Events().Pending()
	require.Len(t, pending, 1)
	transfer, ok := pending[0].(*eventsdb.TransferEvent)
	require.True(t, ok)
	assert.Equal(t, "10000", transfer.Amount)
	assert.Equal(t, "500", transfer.Tax)
	assert.True(t, transfer.Spender.IsZero())
}

func TestExecutor_TransferCrossesThresholdBothWays(t *testing.T) {
	t.Parallel()
	s := getState(t)
	executor := newExecutor()

	_, err := executor.Transfer(s, Tx{Caller: alice, From: alice, To: bob, Amount: uint256.NewInt(6000)}, genesisTime+1)
	require.NoError(t, err)
	require.True(t, s.Holders.IsEligible(bob))

	_, err = executor.Transfer(s, Tx{Caller: bob, From: bob, To: carol, Amount: uint256.NewInt(5700)}, genesisTime+2)
	require.NoError(t, err)

	assert.False(t, s.Holders.IsEligible(bob))
	assert.True(t, s.Holders.IsEligible(carol))
	assert.Equal(t, uint64(5415), s.Holders.GetSnapshot(carol).Uint64())
	assert.ElementsMatch(t, []types.Address{alice, carol}, s.Holders.List())
}

func TestExecutor_InsufficientFunds(t *testing.T) {
	t.Parallel()
	s := getState(t)

	_, err := newExecutor().Transfer(s, Tx{Caller: bob, From: bob, To: alice, Amount: uint256.NewInt(1)}, genesisTime+1)
	require.Error(t, err)
	assert.Equal(t, code.InsufficientFunds, code.Of(err))

	assert.Equal(t, uint64(100000000), s.Accounts.GetBalance(alice).Uint64())
	assert.True(t, s.Pools.Total().IsZero())
	assert.Empty(t, s.Events().Pending())
}

func TestExecutor_OverflowRejectedBeforeApply(t *testing.T) {
	t.Parallel()
	nearMax := new(uint256.Int).Sub(new(uint256.Int).SetAllOne(), uint256.NewInt(100))

	for name, prepare := range map[string]func(s *state.State){
		"recipient": func(s *state.State) { s.Accounts.SetBalance(bob, nearMax) },
		"vault":     func(s *state.State) { s.Accounts.SetBalance(types.LotteryVaultAddress, nearMax) },
		"pool":      func(s *state.State) { s.Pools.Create(types.CadenceShort, nearMax, genesisTime) },
	} {
		prepare := prepare
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := getState(t)
			prepare(s)

			vault := s.Accounts.GetBalance(types.LotteryVaultAddress)
			recipient := s.Accounts.GetBalance(bob)
			short := s.Pools.GetAmount(types.CadenceShort)

			_, err := newExecutor().Transfer(s, Tx{Caller: alice, From: alice, To: bob, Amount: uint256.NewInt(10000)}, genesisTime+1)
			require.Error(t, err)
			assert.Equal(t, code.ArithmeticOverflow, code.Of(err))

			assert.Equal(t, uint64(100000000), s.Accounts.GetBalance(alice).Uint64())
			assert.Equal(t, recipient, s.Accounts.GetBalance(bob))
			assert.Equal(t, vault, s.Accounts.GetBalance(types.LotteryVaultAddress))
			assert.Equal(t, short, s.Pools.GetAmount(types.CadenceShort))
			assert.True(t, s.Pools.GetAmount(types.CadenceMedium).IsZero())
			assert.Zero(t, s.App.GetTxCount())
			assert.Empty(t, s.Events().Pending())
		})
	}
}

func TestExecutor_TransferFrom(t *testing.T) {
	t.Parallel()
	s := getState(t)
	executor := newExecutor()

	_, err := executor.Approve(s, alice, carol, uint256.NewInt(9999))
	require.NoError(t, err)

	tx := Tx{Caller: carol, From: alice, To: bob, Amount: uint256.NewInt(10000), Delegated: true}
	_, err = executor.Transfer(s, tx, genesisTime+1)
	require.Error(t, err)
	assert.Equal(t, code.InsufficientAllowance, code.Of(err))
	assert.Equal(t, uint64(9999), s.Accounts.GetAllowance(alice, carol).Uint64())
	assert.True(t, s.Accounts.GetBalance(bob).IsZero())
	assert.True(t, s.Pools.Total().IsZero())

	_, err = executor.Approve(s, alice, carol, uint256.NewInt(10000))
	require.NoError(t, err)

	receipt, err := executor.Transfer(s, tx, genesisTime+1)
	require.NoError(t, err)
	assert.True(t, s.Accounts.GetAllowance(alice, carol).IsZero())
	assert.Equal(t, uint64(9500), s.Accounts.GetBalance(bob).Uint64())

	transfer := receipt.Events[0].(*eventsdb.TransferEvent)
	assert.Equal(t, carol, transfer.Spender)
}

func TestExecutor_Vault(t *testing.T) {
	t.Parallel()
	s := getState(t)

	_, err := newExecutor().Transfer(s, Tx{Caller: alice, From: alice, To: types.LotteryVaultAddress, Amount: uint256.NewInt(1)}, genesisTime+1)
	assert.Equal(t, code.TransferToVault, code.Of(err))

	_, err = newExecutor().Transfer(s, Tx{Caller: alice, From: alice, To: types.Address{}, Amount: uint256.NewInt(1)}, genesisTime+1)
	assert.Equal(t, code.WrongAddress, code.Of(err))
}

func TestExecutor_Payout(t *testing.T) {
	t.Parallel()
	s := getState(t)
	executor := newExecutor()

	_, err := executor.Transfer(s, Tx{Caller: alice, From: alice, To: bob, Amount: uint256.NewInt(10000)}, genesisTime+1)
	require.NoError(t, err)

	// short cadence after the grace period, alice and bob are eligible
	now := uint64(genesisTime + 2*86400)
	receipt, err := executor.Transfer(s, Tx{Caller: alice, From: alice, To: carol, Amount: uint256.NewInt(100)}, now)
	require.NoError(t, err)

	require.Len(t, receipt.Payouts, 1)
	payout := receipt.Payouts[0]
	assert.Equal(t, types.CadenceShort, payout.Cadence)
	assert.Equal(t, uint64(252), payout.Amount.Uint64())
	assert.Contains(t, []types.Address{alice, bob}, payout.Winner)

	assert.True(t, s.Pools.GetAmount(types.CadenceShort).IsZero())
	assert.Equal(t, now, s.Pools.GetLastDistribution(types.CadenceShort))
	assert.Equal(t, uint64(252), s.App.GetTotalPaid().Uint64())
	assert.Equal(t, s.Pools.Total().Uint64(), s.Accounts.GetBalance(types.LotteryVaultAddress).Uint64()-s.App.GetDust().Uint64())

	require.Len(t, receipt.Events, 2)
	winnerPaid, ok := receipt.Events[1].(*eventsdb.WinnerPaidEvent)
	require.True(t, ok)
	assert.Equal(t, "short", winnerPaid.Cadence)
	assert.Equal(t, payout.Winner, winnerPaid.Winner)
	assert.Equal(t, "252", winnerPaid.Amount)
}
