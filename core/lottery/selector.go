package lottery

import (
	"encoding/binary"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
)

const (
	bonusModulo    = 100
	bonusThreshold = 5
)

// BalanceReader is the ledger view the selector needs.
type BalanceReader interface {
	GetBalance(address types.Address) *uint256.Int
}

// Draw holds the inputs of one selection.
type Draw struct {
	Time   uint64
	Seed   []byte
	Caller types.Address
}

type Result struct {
	Winner types.Address
	Index  int

	// LargeHolderBonus is set when the winner holds at least twice the minimum balance
	// and the second draw hit. The winner is the same either way.
	LargeHolderBonus bool
}

type Selector struct {
	largeHolderBalance *uint256.Int
}

func NewSelector(params types.LotteryParams) *Selector {
	return &Selector{largeHolderBalance: params.LargeHolderBalance()}
}

// Select picks keccak256(time, seed, caller) mod len(candidates). Returns false when
// there are no candidates.
func (s *Selector) Select(candidates []types.Address, balances BalanceReader, draw Draw) (Result, bool) {
	if len(candidates) == 0 {
		return Result{}, false
	}

	n := uint256.NewInt(uint64(len(candidates)))
	index := int(new(uint256.Int).Mod(hashToInt(draw.hash()), n).Uint64())

	result := Result{
		Winner: candidates[index],
		Index:  index,
	}

	if !balances.GetBalance(result.Winner).Lt(s.largeHolderBalance) {
		indexBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(indexBytes, uint64(index))

		roll := new(uint256.Int).Mod(hashToInt(draw.hash(indexBytes)), uint256.NewInt(bonusModulo))
		result.LargeHolderBonus = roll.Uint64() < bonusThreshold
	}

	return result, true
}

func (d Draw) hash(extra ...[]byte) []byte {
	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, d.Time)

	data := [][]byte{timeBytes, d.Seed, d.Caller.Bytes()}
	return keccak256(append(data, extra...)...)
}

func hashToInt(hash []byte) *uint256.Int {
	return new(uint256.Int).SetBytes(hash)
}
