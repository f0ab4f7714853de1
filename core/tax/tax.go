package tax

import (
	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
)

var hundred = uint256.NewInt(100)

// Split is the result of withholding tax from a single transfer.
// Tax + Net == Amount and Sum(Shares) + Remainder == Tax.
type Split struct {
	Amount    *uint256.Int
	Tax       *uint256.Int
	Net       *uint256.Int
	Shares    [types.CadencesCount]*uint256.Int
	Remainder *uint256.Int
}

// Share returns the part of the tax credited to the pool of cadence.
func (s *Split) Share(cadence types.Cadence) *uint256.Int {
	return s.Shares[cadence]
}

type Splitter struct {
	rate   *uint256.Int
	shares [types.CadencesCount]*uint256.Int
}

func NewSplitter(params types.LotteryParams) *Splitter {
	s := &Splitter{rate: uint256.NewInt(params.TaxRate)}
	for i, share := range params.Shares {
		s.shares[i] = uint256.NewInt(share)
	}

	return s
}

// Split computes floor(amount*rate/100) and its truncated per-pool shares.
func (s *Splitter) Split(amount *uint256.Int) (*Split, error) {
	tax, err := percent(amount, s.rate, "tax")
	if err != nil {
		return nil, err
	}

	split := &Split{
		Amount: new(uint256.Int).Set(amount),
		Tax:    tax,
		Net:    new(uint256.Int).Sub(amount, tax),
	}

	assigned := new(uint256.Int)
	for _, cadence := range types.Cadences {
		share, err := percent(tax, s.shares[cadence], cadence.String()+" share")
		if err != nil {
			return nil, err
		}
		split.Shares[cadence] = share
		assigned.Add(assigned, share)
	}

	remainder, underflow := new(uint256.Int).SubOverflow(tax, assigned)
	if underflow {
		return nil, code.NewArithmeticOverflow("tax remainder")
	}
	split.Remainder = remainder

	return split, nil
}

func percent(value, pct *uint256.Int, operation string) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(value, pct)
	if overflow {
		return nil, code.NewArithmeticOverflow(operation)
	}

	return product.Div(product, hundred), nil
}
