package bus

import (
	"github.com/holiman/uint256"
)

type Pools interface {
	Total() *uint256.Int
}
