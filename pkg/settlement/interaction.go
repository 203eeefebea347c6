package settlement

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Interaction is an on-chain call needed to execute part of a
// settlement. It is a closed sum: either a swap against an internal
// liquidity pool or an arbitrary external call.
type Interaction interface {
	isInteraction()
}

// LiquidityInteraction swaps against a liquidity pool known to the
// execution layer, referenced by its internal id.
type LiquidityInteraction struct {
	Internalize  bool
	ID           int
	InputToken   common.Address
	OutputToken  common.Address
	InputAmount  *uint256.Int
	OutputAmount *uint256.Int
}

func (*LiquidityInteraction) isInteraction() {}

// Asset is a token amount moved by a custom interaction.
type Asset struct {
	Token  common.Address
	Amount *uint256.Int
}

// Allowance is a token approval a custom interaction requires before
// it can execute.
type Allowance struct {
	Token   common.Address
	Spender common.Address
	Amount  *uint256.Int
}

// CustomInteraction is an arbitrary call to an external contract. The
// declared inputs and outputs let downstream systems account for the
// asset flow without simulating the call.
type CustomInteraction struct {
	Internalize bool
	Target      common.Address
	Value       *uint256.Int
	CallData    []byte
	Allowances  []Allowance
	Inputs      []Asset
	Outputs     []Asset
}

func (*CustomInteraction) isInteraction() {}
