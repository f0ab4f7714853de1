package tax

import (
	"testing"

	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_Split(t *testing.T) {
	t.Parallel()
	splitter := NewSplitter(types.DefaultLotteryParams())

	split, err := splitter.Split(uint256.NewInt(10000))
	require.NoError(t, err)

	assert.Equal(t, uint64(500), split.Tax.Uint64())
	assert.Equal(t, uint64(9500), split.Net.Uint64())
	assert.Equal(t, uint64(250), split.Share(types.CadenceShort).Uint64())
	assert.Equal(t, uint64(150), split.Share(types.CadenceMedium).Uint64())
	assert.Equal(t, uint64(100), split.Share(types.CadenceLong).Uint64())
	assert.True(t, split.Remainder.IsZero())
}

func TestSplitter_Truncates(t *testing.T) {
	t.Parallel()
	splitter := NewSplitter(types.DefaultLotteryParams())

	tests := []struct {
		amount    uint64
		tax       uint64
		remainder uint64
	}{
		{amount: 0, tax: 0, remainder: 0},
		{amount: 19, tax: 0, remainder: 0},
		{amount: 20, tax: 1, remainder: 1},
		{amount: 39, tax: 1, remainder: 1},
		{amount: 99, tax: 4, remainder: 1},
		{amount: 1999, tax: 99, remainder: 2},
	}

	for _, tt := range tests {
		split, err := splitter.Split(uint256.NewInt(tt.amount))
		require.NoError(t, err)

		assert.Equal(t, tt.tax, split.Tax.Uint64(), "tax of %d", tt.amount)
		assert.Equal(t, tt.amount, new(uint256.Int).Add(split.Tax, split.Net).Uint64(), "tax + net of %d", tt.amount)
		assert.Equal(t, tt.remainder, split.Remainder.Uint64(), "remainder of %d", tt.amount)
	}
}

func TestSplitter_SharesNeverExceedTax(t *testing.T) {
	t.Parallel()
	params := types.DefaultLotteryParams()
	params.TaxRate = 7
	params.Shares = [types.CadencesCount]uint64{33, 33, 33}
	splitter := NewSplitter(params)

	for amount := uint64(0); amount < 5000; amount += 37 {
		split, err := splitter.Split(uint256.NewInt(amount))
		require.NoError(t, err)

		assigned := new(uint256.Int)
		for _, share := range split.Shares {
			assigned.Add(assigned, share)
		}
		assert.False(t, split.Tax.Lt(assigned))
		assert.Equal(t, split.Tax.Uint64(), assigned.Uint64()+split.Remainder.Uint64())
		assert.Equal(t, amount*7/100, split.Tax.Uint64())
	}
}

func TestSplitter_Overflow(t *testing.T) {
	t.Parallel()
	splitter := NewSplitter(types.DefaultLotteryParams())

	_, err := splitter.Split(new(uint256.Int).SetAllOne())
	require.Error(t, err)
	assert.Equal(t, code.ArithmeticOverflow, code.Of(err))
}
