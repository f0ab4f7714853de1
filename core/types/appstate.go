package types

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

type AppState struct {
	GenesisTime uint64      `json:"genesis_time" yaml:"genesis_time"`
	Accounts    []Account   `json:"accounts" yaml:"accounts"`
	Allowances  []Allowance `json:"allowances,omitempty" yaml:"allowances,omitempty"`
	Pools       []Pool      `json:"pools,omitempty" yaml:"pools,omitempty"`
	Holders     []Address   `json:"holders,omitempty" yaml:"holders,omitempty"`
	TxCount     uint64      `json:"tx_count" yaml:"tx_count"`
	TotalTax    string      `json:"total_tax,omitempty" yaml:"total_tax,omitempty"`
	TotalPaid   string      `json:"total_paid,omitempty" yaml:"total_paid,omitempty"`
	Forfeited   string      `json:"forfeited,omitempty" yaml:"forfeited,omitempty"`
	Dust        string      `json:"dust,omitempty" yaml:"dust,omitempty"`
}

type Account struct {
	Address Address `json:"address" yaml:"address"`
	Balance string  `json:"balance" yaml:"balance"`
}

type Allowance struct {
	Owner   Address `json:"owner" yaml:"owner"`
	Spender Address `json:"spender" yaml:"spender"`
	Value   string  `json:"value" yaml:"value"`
}

type Pool struct {
	Cadence          string `json:"cadence" yaml:"cadence"`
	Amount           string `json:"amount" yaml:"amount"`
	LastDistribution uint64 `json:"last_distribution" yaml:"last_distribution"`
}

// Verify checks that genesis is consistent: unique accounts, parsable amounts,
// supply not overflowing and lottery vault backing every pool.
func (s *AppState) Verify() error {
	if s.GenesisTime == 0 {
		return errors.New("genesis_time is not set")
	}

	supply := new(uint256.Int)
	vault := new(uint256.Int)
	seen := make(map[Address]struct{}, len(s.Accounts))
	for _, acc := range s.Accounts {
		if _, ok := seen[acc.Address]; ok {
			return errors.Errorf("duplicated account %s", acc.Address)
		}
		seen[acc.Address] = struct{}{}

		balance, err := uint256.FromDecimal(acc.Balance)
		if err != nil {
			return errors.Wrapf(err, "wrong balance of %s", acc.Address)
		}
		if _, overflow := supply.AddOverflow(supply, balance); overflow {
			return errors.New("total supply overflows")
		}
		if IsSystemAddress(acc.Address) {
			vault.Set(balance)
		}
	}

	for _, a := range s.Allowances {
		if _, err := uint256.FromDecimal(a.Value); err != nil {
			return errors.Wrapf(err, "wrong allowance %s -> %s", a.Owner, a.Spender)
		}
	}

	pools := new(uint256.Int)
	seenPools := map[Cadence]struct{}{}
	for _, p := range s.Pools {
		cadence, err := NewCadence(p.Cadence)
		if err != nil {
			return err
		}
		if _, ok := seenPools[cadence]; ok {
			return errors.Errorf("duplicated %s pool", cadence)
		}
		seenPools[cadence] = struct{}{}

		amount, err := uint256.FromDecimal(p.Amount)
		if err != nil {
			return errors.Wrapf(err, "wrong amount of %s pool", cadence)
		}
		if _, overflow := pools.AddOverflow(pools, amount); overflow {
			return errors.New("pools total overflows")
		}
	}

	if vault.Lt(pools) {
		return errors.Errorf("lottery vault balance %s is less than pools total %s", vault.Dec(), pools.Dec())
	}

	for _, h := range s.Holders {
		if _, ok := seen[h]; !ok {
			return errors.Errorf("holder %s has no account", h)
		}
	}

	return nil
}
