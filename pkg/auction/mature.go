package auction

import (
	"time"

	log "github.com/helinwang/log15"

	"github.com/helinwang/auction/pkg/settlement"
)

// SolverSettlement pairs a candidate settlement with the solver that
// proposed it.
type SolverSettlement struct {
	Solver     Solver
	Settlement *settlement.Settlement
}

// HasUserOrder reports whether the settlement trades at least one
// user (market or limit) order.
func HasUserOrder(s *settlement.Settlement) bool {
	return len(s.UserTrades()) > 0
}

// RetainMatureSettlements filters out all settlements without any
// user order which is mature by age or mature by association. Any
// user order older than minOrderAge is mature by age. Any younger
// user order in a settlement containing a user order mature by age or
// by association is mature by association. Old liquidity orders can
// not contribute to the maturity of a settlement.
//
// Because maturity by association is defined recursively it can
// spread across settlements sharing orders, so the computation runs
// as a fixed-point iteration until a full pass adds no new mature
// order. The mature order set only grows and is bounded by the number
// of distinct uids, which guarantees termination.
//
// Every excluded settlement's solver is notified of the rejection.
// The input order of the surviving settlements is preserved.
func RetainMatureSettlements(minOrderAge time.Duration, settlements []SolverSettlement, auctionID int64) []SolverSettlement {
	valid := findMatureSettlements(minOrderAge, settlements)

	r := make([]SolverSettlement, 0, len(valid))
	for i, s := range settlements {
		if valid[i] {
			r = append(r, s)
			continue
		}

		log.Debug(
			"filtered settlement for not including any mature orders",
			"solver", s.Solver.Name(), "settlement", s.Settlement,
		)
		notify(s.Solver, auctionID, Rejected(NoMatureOrders))
	}
	return r
}

func findMatureSettlements(minOrderAge time.Duration, settlements []SolverSettlement) map[int]bool {
	// The deadline is frozen once so every settlement in this pass
	// observes the same notion of "old enough".
	settleOrdersOlderThan := time.Now().Add(-minOrderAge)

	validOrders := make(map[settlement.OrderUid]bool)
	validIndices := make(map[int]bool)

	for {
		newOrderAdded := false

		for i, s := range settlements {
			if validIndices[i] {
				continue
			}

			containsValidUserTrade := false
			for _, t := range s.Settlement.UserTrades() {
				// mature by age
				if !t.Order.CreationDate.After(settleOrdersOlderThan) ||
					// mature by association
					validOrders[t.Order.Uid] {
					containsValidUserTrade = true
					break
				}
			}

			if !containsValidUserTrade {
				continue
			}

			// make all user orders within this settlement mature
			// by association
			for _, t := range s.Settlement.UserTrades() {
				if !validOrders[t.Order.Uid] {
					validOrders[t.Order.Uid] = true
					newOrderAdded = true
				}
			}
			validIndices[i] = true
		}

		if !newOrderAdded {
			return validIndices
		}
	}
}

// notify delivers an auction result without letting a misbehaving
// solver abort the filtering pass.
func notify(s Solver, auctionID int64, result AuctionResult) {
	defer func() {
		if err := recover(); err != nil {
			log.Warn("solver notification panicked", "solver", s.Name(), "err", err)
		}
	}()
	s.NotifyAuctionResult(auctionID, result)
}
