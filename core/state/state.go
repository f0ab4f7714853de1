package state

import (
	"log"
	"sync"

	eventsdb "github.com/MinterTeam/minter-lottery/core/events"
	"github.com/MinterTeam/minter-lottery/core/state/accounts"
	"github.com/MinterTeam/minter-lottery/core/state/app"
	"github.com/MinterTeam/minter-lottery/core/state/bus"
	"github.com/MinterTeam/minter-lottery/core/state/checker"
	"github.com/MinterTeam/minter-lottery/core/state/holders"
	"github.com/MinterTeam/minter-lottery/core/state/pools"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/MinterTeam/minter-lottery/helpers"
	"github.com/MinterTeam/minter-lottery/tree"
	"github.com/cosmos/iavl"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	db "github.com/tendermint/tm-db"
)

type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.App().Export(appState)
	cs.Accounts().Export(appState)
	cs.Pools().Export(appState)
	cs.Holders().Export(appState)

	return *appState
}

func (cs *CheckState) Height() int64 {
	return cs.state.height
}

func (cs *CheckState) App() app.RApp {
	return cs.state.App
}

func (cs *CheckState) Accounts() accounts.RAccounts {
	return cs.state.Accounts
}

func (cs *CheckState) Holders() holders.RHolders {
	return cs.state.Holders
}

func (cs *CheckState) Pools() pools.RPools {
	return cs.state.Pools
}

type State struct {
	App      *app.App
	Accounts *accounts.Accounts
	Holders  *holders.Holders
	Pools    *pools.Pools
	Checker  *checker.Checker

	db             db.DB
	events         eventsdb.IEventsDB
	tree           tree.MTree
	keepLastStates int64
	params         types.LotteryParams

	bus    *bus.Bus
	lock   sync.RWMutex
	height int64
}

// NewState loads the state at height, the latest saved version if height is 0.
func NewState(height uint64, db db.DB, events eventsdb.IEventsDB, cacheSize int, keepLastStates int64, params types.LotteryParams) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize, 0)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates, params)
	state.tree = iavlTree
	state.height = iavlTree.Version()

	return state, nil
}

// NewCheckStateAtHeight returns read-only state of the given saved version.
func NewCheckStateAtHeight(height uint64, db db.DB, params types.LotteryParams) (*CheckState, error) {
	immutableTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}

	return NewCheckState(newStateForTree(immutableTree, nil, db, 0, params)), nil
}

// CheckStateAtHeight opens a read-only view of a saved version of this state.
func (s *State) CheckStateAtHeight(height uint64) (*CheckState, error) {
	return NewCheckStateAtHeight(height, s.db, s.params)
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Events() eventsdb.IEventsDB {
	return s.events
}

func (s *State) Params() types.LotteryParams {
	return s.params
}

func (s *State) Height() int64 {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.height
}

func (s *State) Check() error {
	return s.Checker.Check()
}

// Commit saves all modules into a new tree version and prunes versions older than keep_last_states.
func (s *State) Commit() ([]byte, error) {
	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.Accounts,
		s.App,
		s.Holders,
		s.Pools,
	)
	if err != nil {
		return hash, err
	}

	s.lock.Lock()
	s.height = version
	s.lock.Unlock()

	if s.keepLastStates <= 0 {
		return hash, nil
	}

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < 1 {
		return hash, nil
	}

	if err := s.tree.DeleteVersion(versionToDelete); err != nil {
		log.Printf("DeleteVersion %d error: %s\n", versionToDelete, err)
	}

	return hash, nil
}

// Import loads genesis. Pools missing in genesis start empty with the grace period applied.
func (s *State) Import(state types.AppState) error {
	if err := state.Verify(); err != nil {
		return errors.Wrap(err, "invalid genesis")
	}

	s.App.SetGenesisTime(state.GenesisTime)
	s.App.SetTxCount(state.TxCount)
	s.App.AddTotalTax(helpers.StringToAmountOrZero(state.TotalTax))
	s.App.AddTotalPaid(helpers.StringToAmountOrZero(state.TotalPaid))
	s.App.AddForfeited(helpers.StringToAmountOrZero(state.Forfeited))
	s.App.AddDust(helpers.StringToAmountOrZero(state.Dust))

	for _, a := range state.Accounts {
		s.Accounts.SetBalance(a.Address, helpers.StringToAmount(a.Balance))
	}

	for _, a := range state.Allowances {
		s.Accounts.SetAllowance(a.Owner, a.Spender, helpers.StringToAmount(a.Value))
	}

	start := state.GenesisTime + uint64(s.params.GracePeriod.Seconds())
	imported := map[types.Cadence]struct{}{}
	for _, p := range state.Pools {
		cadence, _ := types.NewCadence(p.Cadence)
		s.Pools.Create(cadence, helpers.StringToAmount(p.Amount), p.LastDistribution)
		imported[cadence] = struct{}{}
	}
	for _, cadence := range types.Cadences {
		if _, ok := imported[cadence]; !ok {
			s.Pools.Create(cadence, new(uint256.Int), start)
		}
	}

	// exported order first, then everyone else who qualifies
	for _, address := range state.Holders {
		s.Holders.Update(address)
	}
	for _, a := range state.Accounts {
		s.Holders.Update(a.Address)
	}

	s.Checker.Reset()

	return s.Check()
}

func (s *State) Export() types.AppState {
	state, err := NewCheckStateAtHeight(uint64(s.tree.Version()), s.db, s.params)
	if err != nil {
		log.Panicf("Create new state at height %d failed: %s", s.tree.Version(), err)
	}

	return state.Export()
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64, params types.LotteryParams) *State {
	stateBus := bus.NewBus()
	stateBus.SetEvents(events)

	stateChecker := checker.NewChecker(stateBus)

	appState := app.NewApp(stateBus, immutableTree)

	accountsState := accounts.NewAccounts(stateBus, immutableTree)

	poolsState := pools.NewPools(stateBus, immutableTree)

	holdersState := holders.NewHolders(stateBus, immutableTree, params.MinEligibleBalance)

	return &State{
		App:      appState,
		Accounts: accountsState,
		Holders:  holdersState,
		Pools:    poolsState,
		Checker:  stateChecker,

		height:         immutableTree.Version(),
		bus:            stateBus,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
		params:         params,
	}
}
