package settlement

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Trade is the execution of one order inside a settlement. Jit marks
// a trade whose order was synthesized by the solver at settlement
// time instead of taken from the resting order book; such a trade
// carries the full order data so it can be encoded on the wire.
type Trade struct {
	Order Order
	// in the smallest denomination of the traded token
	ExecutedAmount *uint256.Int
	Jit            bool
}

// Settlement is a solver's proposed execution plan for one auction
// round: the trades to execute, the clearing prices used to value
// them, and the on-chain interactions needed to source liquidity.
//
// Settlements are produced by external solvers and are read-only to
// the evaluation core.
type Settlement struct {
	Trades       []Trade
	Prices       map[common.Address]*uint256.Int
	Interactions []Interaction
}

// UserTrades returns the subsequence of trades belonging to real user
// orders (market or limit class). Liquidity trades are skipped.
func (s *Settlement) UserTrades() []Trade {
	var r []Trade
	for _, t := range s.Trades {
		if t.Order.Class.IsUserOrder() {
			r = append(r, t)
		}
	}
	return r
}
