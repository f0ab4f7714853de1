package app

import (
	"github.com/holiman/uint256"
)

type Model struct {
	GenesisTime uint64
	TxCount     uint64
	TotalTax    []byte
	TotalPaid   []byte
	Forfeited   []byte
	Dust        []byte

	markDirty func()
}

func (model *Model) getGenesisTime() uint64 {
	return model.GenesisTime
}

func (model *Model) setGenesisTime(t uint64) {
	if model.GenesisTime != t {
		model.markDirty()
	}
	model.GenesisTime = t
}

func (model *Model) getTxCount() uint64 {
	return model.TxCount
}

func (model *Model) setTxCount(count uint64) {
	if model.TxCount != count {
		model.markDirty()
	}
	model.TxCount = count
}

// add accumulates a counter, saturating instead of wrapping
func (model *Model) add(field *[]byte, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}

	sum, overflow := new(uint256.Int).AddOverflow(new(uint256.Int).SetBytes(*field), amount)
	if overflow {
		sum.SetAllOne()
	}
	*field = sum.Bytes()
	model.markDirty()
}
