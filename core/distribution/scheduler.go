package distribution

import (
	"time"

	"github.com/MinterTeam/minter-lottery/core/lottery"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
)

// Pools is the accumulator store of the three cadences.
type Pools interface {
	GetAmount(cadence types.Cadence) *uint256.Int
	GetLastDistribution(cadence types.Cadence) uint64
	Reset(cadence types.Cadence, now uint64)
}

type Holders interface {
	List() []types.Address
}

// Payer moves a pool out of the vault.
type Payer interface {
	Pay(cadence types.Cadence, winner types.Address, amount *uint256.Int)
	Forfeit(cadence types.Cadence, amount *uint256.Int)
}

type State interface {
	Pools
	Holders
	Payer
	lottery.BalanceReader
}

type Payout struct {
	Cadence          types.Cadence
	Winner           types.Address
	Amount           *uint256.Int
	Time             uint64
	LargeHolderBonus bool
}

type Scheduler struct {
	durations [types.CadencesCount]uint64
	selector  *lottery.Selector
	seeds     lottery.SeedSource
}

func NewScheduler(params types.LotteryParams, selector *lottery.Selector, seeds lottery.SeedSource) *Scheduler {
	s := &Scheduler{selector: selector, seeds: seeds}
	for i, d := range params.Durations {
		s.durations[i] = uint64(d / time.Second)
	}

	return s
}

// IsDue reports whether the cadence reached now.
func (s *Scheduler) IsDue(cadence types.Cadence, lastDistribution, now uint64) bool {
	return now >= lastDistribution && now-lastDistribution >= s.durations[cadence]
}

// Run evaluates short, medium and long cadences in order. A due cadence is always
// reset to now, whatever happened to its pool. Only the cadences that paid a winner
// are returned.
func (s *Scheduler) Run(now uint64, caller types.Address, st State) []Payout {
	var payouts []Payout
	var seed []byte

	for _, cadence := range types.Cadences {
		if !s.IsDue(cadence, st.GetLastDistribution(cadence), now) {
			continue
		}

		amount := st.GetAmount(cadence)
		if amount.IsZero() {
			st.Reset(cadence, now)
			continue
		}

		if seed == nil {
			seed = s.seeds.NextSeed()
		}

		result, ok := s.selector.Select(st.List(), st, lottery.Draw{Time: now, Seed: seed, Caller: caller})
		if !ok {
			st.Forfeit(cadence, amount)
			st.Reset(cadence, now)
			continue
		}

		st.Reset(cadence, now)
		st.Pay(cadence, result.Winner, amount)

		payouts = append(payouts, Payout{
			Cadence:          cadence,
			Winner:           result.Winner,
			Amount:           amount,
			Time:             now,
			LargeHolderBonus: result.LargeHolderBonus,
		})
	}

	return payouts
}
