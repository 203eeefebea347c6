package auction

import (
	"math/big"
	"time"

	lru "github.com/hashicorp/golang-lru"
	log "github.com/helinwang/log15"
	"github.com/holiman/uint256"

	"github.com/helinwang/auction/pkg/settlement"
	"github.com/helinwang/auction/pkg/solution"
)

const defaultHistorySize = 32

// Config controls one evaluation driver.
type Config struct {
	// MinOrderAge is the age at which an order becomes mature.
	MinOrderAge time.Duration
	// HistorySize bounds the number of recent auction outcomes
	// kept for diagnostics. Zero means the default.
	HistorySize int
}

// Candidate is one solver proposal together with the economic
// quantities estimated for it upstream.
type Candidate struct {
	Solver     Solver
	Settlement *settlement.Settlement

	Surplus               *big.Rat     // in wei
	UnscaledSubsidizedFee *big.Rat     // in wei
	ScaledUnsubsidizedFee *big.Rat     // in wei
	GasEstimate           *uint256.Int // in gas units
	GasPrice              *big.Rat     // in wei per gas unit
}

// Outcome summarizes one finished auction round.
type Outcome struct {
	AuctionID  int64
	Candidates int
	Rejected   int
	// WinnerID is the run scoped id of the winning settlement, -1
	// when the round produced the trivial solution.
	WinnerID   int64
	WinnerName string
}

// Driver runs the synchronous per-round evaluation pipeline: maturity
// filtering, rating, winner selection and wire encoding. It holds no
// reference to the settlements after a round finishes, only a bounded
// history of outcome summaries.
type Driver struct {
	cfg     Config
	history *lru.Cache
}

func NewDriver(cfg Config) (*Driver, error) {
	size := cfg.HistorySize
	if size == 0 {
		size = defaultHistorySize
	}

	history, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &Driver{cfg: cfg, history: history}, nil
}

// Run evaluates one auction round and returns the encoded winning
// solution together with the winner's rating. When no candidate
// survives filtering and encoding, the trivial solution and a nil
// rating are returned: a bad settlement is dropped, never propagated
// as a fatal error.
func (d *Driver) Run(auctionID int64, candidates []Candidate) (*solution.Solution, *RatedSettlement, error) {
	pairs := make([]SolverSettlement, len(candidates))
	bySettlement := make(map[*settlement.Settlement]Candidate, len(candidates))
	for i, c := range candidates {
		pairs[i] = SolverSettlement{Solver: c.Solver, Settlement: c.Settlement}
		bySettlement[c.Settlement] = c
	}

	mature := RetainMatureSettlements(d.cfg.MinOrderAge, pairs, auctionID)

	rated := make([]RatedSettlement, len(mature))
	for i, m := range mature {
		c := bySettlement[m.Settlement]
		rated[i] = RatedSettlement{
			ID:                    int64(i),
			Solver:                m.Solver,
			Settlement:            m.Settlement,
			Surplus:               c.Surplus,
			UnscaledSubsidizedFee: c.UnscaledSubsidizedFee,
			ScaledUnsubsidizedFee: c.ScaledUnsubsidizedFee,
			GasEstimate:           c.GasEstimate,
			GasPrice:              c.GasPrice,
		}
	}

	SortByObjectiveValue(rated)
	for i := range rated {
		notify(rated[i].Solver, auctionID, Ranked(i+1))
	}

	outcome := Outcome{
		AuctionID:  auctionID,
		Candidates: len(candidates),
		Rejected:   len(candidates) - len(mature),
		WinnerID:   -1,
	}

	for i := range rated {
		encoded, err := solution.Encode(rated[i].Settlement)
		if err != nil {
			log.Error(
				"settlement failed to encode, skipping",
				"solver", rated[i].Solver.Name(), "err", err,
			)
			continue
		}

		outcome.WinnerID = rated[i].ID
		outcome.WinnerName = rated[i].Solver.Name()
		d.history.Add(auctionID, outcome)
		return encoded, &rated[i], nil
	}

	d.history.Add(auctionID, outcome)
	return solution.Trivial(), nil, nil
}

// Outcome returns the recorded summary of a recent auction round.
func (d *Driver) Outcome(auctionID int64) (Outcome, bool) {
	v, ok := d.history.Get(auctionID)
	if !ok {
		return Outcome{}, false
	}
	return v.(Outcome), true
}
