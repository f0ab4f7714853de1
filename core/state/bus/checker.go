package bus

import (
	"github.com/holiman/uint256"
)

type Checker interface {
	AddCredit(*uint256.Int)
	AddDebit(*uint256.Int)
}
