package types

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Cadence identifies one of the three lottery pools.
type Cadence byte

const (
	CadenceShort Cadence = iota
	CadenceMedium
	CadenceLong
)

const CadencesCount = 3

// Cadences lists pools in the order they are evaluated on every transfer.
var Cadences = [CadencesCount]Cadence{CadenceShort, CadenceMedium, CadenceLong}

func (c Cadence) String() string {
	switch c {
	case CadenceShort:
		return "short"
	case CadenceMedium:
		return "medium"
	case CadenceLong:
		return "long"
	}

	return "unknown"
}

func (c Cadence) IsValid() bool {
	return c <= CadenceLong
}

func NewCadence(s string) (Cadence, error) {
	switch s {
	case "short":
		return CadenceShort, nil
	case "medium":
		return CadenceMedium, nil
	case "long":
		return CadenceLong, nil
	}

	return 0, errors.Errorf("unknown cadence %q", s)
}

// LotteryVaultAddress holds withheld tax until it is paid out to a winner.
var LotteryVaultAddress = HexToAddress("Mxffffffffffffffffffffffffffffffffffffffff")

// IsSystemAddress reports whether address is owned by the lottery itself.
func IsSystemAddress(address Address) bool {
	return address == LotteryVaultAddress
}

const (
	DefaultTaxRate            = 5
	DefaultMinEligibleBalance = 5000
	DefaultGracePeriod        = 24 * time.Hour

	largeHolderMultiplier = 2
)

// LotteryParams is the fixed set of constants the tax and lottery engine runs with.
type LotteryParams struct {
	TaxRate            uint64 // percent of every transfer
	MinEligibleBalance *uint256.Int
	Durations          [CadencesCount]time.Duration
	Shares             [CadencesCount]uint64 // percent of the tax per pool
	GracePeriod        time.Duration
}

func DefaultLotteryParams() LotteryParams {
	return LotteryParams{
		TaxRate:            DefaultTaxRate,
		MinEligibleBalance: uint256.NewInt(DefaultMinEligibleBalance),
		Durations: [CadencesCount]time.Duration{
			24 * time.Hour,
			30 * 24 * time.Hour,
			365 * 24 * time.Hour,
		},
		Shares:      [CadencesCount]uint64{50, 30, 20},
		GracePeriod: DefaultGracePeriod,
	}
}

func (p LotteryParams) Validate() error {
	if p.TaxRate > 100 {
		return errors.Errorf("tax rate should be in range [0, 100], got %d", p.TaxRate)
	}

	if p.MinEligibleBalance == nil || p.MinEligibleBalance.IsZero() {
		return errors.New("min eligible balance should be positive")
	}

	if _, overflow := new(uint256.Int).MulOverflow(p.MinEligibleBalance, uint256.NewInt(largeHolderMultiplier)); overflow {
		return errors.New("min eligible balance is too large")
	}

	var total uint64
	for _, c := range Cadences {
		if p.Durations[c] < time.Second {
			return errors.Errorf("%s cadence should be at least one second, got %s", c, p.Durations[c])
		}
		if p.Shares[c] > 100 {
			return errors.Errorf("%s share should be in range [0, 100], got %d", c, p.Shares[c])
		}
		total += p.Shares[c]
	}

	if total > 100 {
		return errors.Errorf("sum of pool shares should not exceed 100, got %d", total)
	}

	if p.GracePeriod < 0 {
		return errors.New("grace period should not be negative")
	}

	return nil
}

func (p LotteryParams) Duration(c Cadence) time.Duration {
	return p.Durations[c]
}

func (p LotteryParams) Share(c Cadence) uint64 {
	return p.Shares[c]
}

// LargeHolderBalance is the balance from which the second draw is taken.
func (p LotteryParams) LargeHolderBalance() *uint256.Int {
	return new(uint256.Int).Mul(p.MinEligibleBalance, uint256.NewInt(largeHolderMultiplier))
}
