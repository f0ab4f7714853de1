package helpers

import (
	"fmt"

	"github.com/holiman/uint256"
)

// StringToAmount converts decimal string to uint256, panics on empty strings and errors
func StringToAmount(s string) *uint256.Int {
	if s == "" {
		panic("string is empty")
	}

	v, err := uint256.FromDecimal(s)
	if err != nil {
		panic(fmt.Sprintf("Cannot decode %s into uint256: %s", s, err))
	}

	return v
}

// StringToAmountOrZero is like StringToAmount but treats empty string as zero
func StringToAmountOrZero(s string) *uint256.Int {
	if s == "" {
		return new(uint256.Int)
	}

	return StringToAmount(s)
}

// IsValidAmount verifies that string is a valid unsigned 256 bit decimal
func IsValidAmount(s string) bool {
	if s == "" {
		return false
	}

	_, err := uint256.FromDecimal(s)
	return err == nil
}

// AmountToString renders nil as zero
func AmountToString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}

	return v.Dec()
}
