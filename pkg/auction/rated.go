package auction

import (
	"math/big"
	"sort"

	"github.com/holiman/uint256"

	"github.com/helinwang/auction/pkg/settlement"
)

// RatedSettlement binds a settlement to the economic quantities it
// was rated with. It exists only for the duration of one evaluation
// pass.
type RatedSettlement struct {
	// ID identifies a settlement during a run loop.
	ID         int64
	Solver     Solver
	Settlement *settlement.Settlement

	Surplus               *big.Rat     // in wei
	UnscaledSubsidizedFee *big.Rat     // in wei
	ScaledUnsubsidizedFee *big.Rat     // in wei
	GasEstimate           *uint256.Int // in gas units
	GasPrice              *big.Rat     // in wei per gas unit
}

// computeObjectiveValue is split out so the arithmetic can be unit
// tested without a settlement.
func computeObjectiveValue(surplus, solverFees, gasEstimate, gasPrice *big.Rat) *big.Rat {
	cost := new(big.Rat).Mul(gasEstimate, gasPrice)
	v := new(big.Rat).Add(surplus, solverFees)
	return v.Sub(v, cost)
}

// ObjectiveValue is the net economic value of the settlement:
// surplus plus unsubsidized fees minus gas cost. It is computed in
// exact rational arithmetic, equal economic outcomes compare exactly
// equal regardless of computation order.
func (r *RatedSettlement) ObjectiveValue() *big.Rat {
	gasEstimate := new(big.Rat).SetInt(r.GasEstimate.ToBig())
	return computeObjectiveValue(r.Surplus, r.ScaledUnsubsidizedFee, gasEstimate, r.GasPrice)
}

// SortByObjectiveValue orders settlements best first: descending
// objective value, exact ties broken by the lower run-scoped ID so
// the ranking does not depend on input order.
func SortByObjectiveValue(rated []RatedSettlement) {
	sort.SliceStable(rated, func(i, j int) bool {
		if c := rated[i].ObjectiveValue().Cmp(rated[j].ObjectiveValue()); c != 0 {
			return c > 0
		}
		return rated[i].ID < rated[j].ID
	})
}
