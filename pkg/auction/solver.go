package auction

import "github.com/ethereum/go-ethereum/common"

// RejectionReason explains why a candidate settlement was excluded
// from an auction.
type RejectionReason string

const (
	// NoMatureOrders means the settlement contained no user order
	// mature by age or by association.
	NoMatureOrders RejectionReason = "NoMatureOrders"
)

// ResultKind discriminates the closed set of auction outcomes.
type ResultKind uint8

const (
	ResultRanked ResultKind = iota
	ResultRejected
	ResultSubmittedOnChain
)

// AuctionResult is the outcome of one auction round from the point of
// view of a single candidate settlement.
type AuctionResult struct {
	Kind   ResultKind
	Rank   int
	Reason RejectionReason
	TxHash common.Hash
}

// Ranked reports the position a settlement reached in the ranking,
// starting at 1 for the winner.
func Ranked(rank int) AuctionResult {
	return AuctionResult{Kind: ResultRanked, Rank: rank}
}

// Rejected reports that a settlement was excluded before ranking.
func Rejected(reason RejectionReason) AuctionResult {
	return AuctionResult{Kind: ResultRejected, Reason: reason}
}

// SubmittedOnChain reports the transaction that executed the winning
// settlement. The evaluation core never emits it, the surrounding
// submission loop does.
func SubmittedOnChain(txHash common.Hash) AuctionResult {
	return AuctionResult{Kind: ResultSubmittedOnChain, TxHash: txHash}
}

// Solver is the handle the core holds to an external solver process.
// Production solvers and test doubles both implement it.
type Solver interface {
	// Name returns a display identifier used only for diagnostics.
	Name() string
	// NotifyAuctionResult tells the solver how its settlement fared.
	// Best effort: the caller does not wait for or depend on the
	// notification being processed.
	NotifyAuctionResult(auctionID int64, result AuctionResult)
}
