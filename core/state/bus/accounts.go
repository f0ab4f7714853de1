package bus

import (
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
)

type Accounts interface {
	GetBalance(types.Address) *uint256.Int
}
