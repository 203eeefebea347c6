package auction_test

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/helinwang/auction/pkg/auction"
	"github.com/helinwang/auction/pkg/auction/mocks"
	"github.com/helinwang/auction/pkg/settlement"
)

func trade(createdAt time.Time, uid byte, class settlement.OrderClass) settlement.Trade {
	var u settlement.OrderUid
	for i := range u {
		u[i] = uid
	}

	return settlement.Trade{
		Order: settlement.Order{
			Uid:          u,
			CreationDate: createdAt,
			Class:        class,
			SellAmount:   uint256.NewInt(1),
			BuyAmount:    uint256.NewInt(1),
		},
		ExecutedAmount: uint256.NewInt(1),
	}
}

func newSettlement(trades ...settlement.Trade) *settlement.Settlement {
	return &settlement.Settlement{Trades: trades}
}

func dummySolver() *mocks.Solver {
	s := new(mocks.Solver)
	s.On("Name").Return("dummy").Maybe()
	s.On("NotifyAuctionResult", mock.Anything, mock.Anything).Maybe()
	return s
}

func pairs(settlements ...*settlement.Settlement) []auction.SolverSettlement {
	r := make([]auction.SolverSettlement, len(settlements))
	for i, s := range settlements {
		r[i] = auction.SolverSettlement{Solver: dummySolver(), Settlement: s}
	}
	return r
}

func retained(r []auction.SolverSettlement) []*settlement.Settlement {
	s := make([]*settlement.Settlement, len(r))
	for i := range r {
		s[i] = r[i].Settlement
	}
	return s
}

func TestRetainEmptyInput(t *testing.T) {
	r := auction.RetainMatureSettlements(time.Minute, nil, 0)
	assert.Empty(t, r)
}

func TestNoMatureOrders(t *testing.T) {
	recent := time.Now()
	minAge := 50 * time.Second

	s1 := newSettlement(
		trade(recent, 1, settlement.Market),
		trade(recent, 2, settlement.Market),
	)
	s2 := newSettlement(
		trade(recent, 2, settlement.Market),
		trade(recent, 3, settlement.Market),
	)
	s3 := newSettlement(
		trade(recent, 4, settlement.Market),
		trade(recent, 5, settlement.Market),
	)

	in := pairs(s1, s2, s3)
	r := auction.RetainMatureSettlements(minAge, in, 7)
	assert.Empty(t, retained(r))

	// each solver received exactly one rejection
	for _, p := range in {
		m := p.Solver.(*mocks.Solver)
		m.AssertNumberOfCalls(t, "NotifyAuctionResult", 1)
		m.AssertCalled(t, "NotifyAuctionResult", int64(7), auction.Rejected(auction.NoMatureOrders))
	}
}

func TestMatureByAge(t *testing.T) {
	recent := time.Now()
	old := recent.Add(-600 * time.Second)
	minAge := 60 * time.Second

	s1 := newSettlement(
		trade(old, 1, settlement.Market),
		trade(recent, 2, settlement.Limit),
	)
	s2 := newSettlement(
		trade(recent, 3, settlement.Market),
		trade(recent, 4, settlement.Market),
	)
	s3 := newSettlement(
		trade(recent, 5, settlement.Market),
		trade(old, 6, settlement.Liquidity),
	)

	r := auction.RetainMatureSettlements(minAge, pairs(s1, s2, s3), 0)
	assert.Equal(t, []*settlement.Settlement{s1}, retained(r))
}

func TestMatureByAssociation(t *testing.T) {
	recent := time.Now()
	old := recent.Add(-600 * time.Second)
	minAge := 60 * time.Second

	s1 := newSettlement(
		trade(recent, 1, settlement.Market),
		trade(recent, 2, settlement.Market),
	)
	s2 := newSettlement(
		trade(recent, 2, settlement.Market),
		trade(recent, 3, settlement.Market),
	)
	s3 := newSettlement(
		trade(recent, 3, settlement.Market),
		trade(old, 4, settlement.Market),
	)
	// not included: only recent orders, none referenced by any
	// valid settlement
	s4 := newSettlement(
		trade(recent, 5, settlement.Market),
		trade(recent, 6, settlement.Market),
	)

	r := auction.RetainMatureSettlements(minAge, pairs(s1, s2, s3, s4), 0)
	assert.Equal(t, []*settlement.Settlement{s1, s2, s3}, retained(r))
}

func TestMatureByAssociationInBetween(t *testing.T) {
	recent := time.Now()
	old := recent.Add(-600 * time.Second)
	minAge := 60 * time.Second

	s1 := newSettlement(
		trade(old, 1, settlement.Market),
		trade(recent, 2, settlement.Market),
	)
	s2 := newSettlement(trade(recent, 3, settlement.Market))
	s3 := newSettlement(
		trade(recent, 2, settlement.Market),
		trade(recent, 3, settlement.Market),
	)
	s4 := newSettlement(trade(recent, 3, settlement.Market))

	r := auction.RetainMatureSettlements(minAge, pairs(s1, s2, s3, s4), 0)
	assert.Equal(t, []*settlement.Settlement{s1, s2, s3, s4}, retained(r))
}

func TestMatureByAssociationOfLiquidityOrderIsNotAccepted(t *testing.T) {
	recent := time.Now()
	old := recent.Add(-600 * time.Second)
	minAge := 60 * time.Second

	s1 := newSettlement(
		trade(recent, 1, settlement.Market),
		trade(recent, 2, settlement.Market),
	)
	s2 := newSettlement(
		trade(recent, 2, settlement.Market),
		trade(old, 3, settlement.Liquidity),
	)

	r := auction.RetainMatureSettlements(minAge, pairs(s1, s2), 0)
	assert.Empty(t, retained(r))
}

func TestRetainIndependentOfInputOrder(t *testing.T) {
	recent := time.Now()
	old := recent.Add(-600 * time.Second)
	minAge := 60 * time.Second

	s1 := newSettlement(
		trade(recent, 1, settlement.Market),
		trade(recent, 2, settlement.Market),
	)
	s2 := newSettlement(
		trade(recent, 2, settlement.Market),
		trade(recent, 3, settlement.Market),
	)
	s3 := newSettlement(
		trade(recent, 3, settlement.Market),
		trade(old, 4, settlement.Market),
	)
	s4 := newSettlement(
		trade(recent, 5, settlement.Market),
		trade(recent, 6, settlement.Market),
	)

	want := map[*settlement.Settlement]bool{s1: true, s2: true, s3: true}
	orders := [][]*settlement.Settlement{
		{s1, s2, s3, s4},
		{s4, s3, s2, s1},
		{s3, s1, s4, s2},
		{s2, s4, s1, s3},
	}

	for _, in := range orders {
		r := auction.RetainMatureSettlements(minAge, pairs(in...), 0)
		got := map[*settlement.Settlement]bool{}
		for _, s := range retained(r) {
			got[s] = true
		}
		assert.Equal(t, want, got)
	}
}

func TestHasUserOrder(t *testing.T) {
	now := time.Now()
	order := func(class settlement.OrderClass) settlement.Trade {
		return trade(now, 0, class)
	}

	assert.False(t, auction.HasUserOrder(newSettlement()))
	assert.True(t, auction.HasUserOrder(newSettlement(order(settlement.Limit))))
	assert.False(t, auction.HasUserOrder(newSettlement(order(settlement.Liquidity))))
	assert.True(t, auction.HasUserOrder(newSettlement(order(settlement.Market))))
	assert.True(t, auction.HasUserOrder(newSettlement(
		order(settlement.Market),
		order(settlement.Liquidity),
	)))
	assert.True(t, auction.HasUserOrder(newSettlement(
		order(settlement.Liquidity),
		order(settlement.Limit),
	)))
}

func TestNotificationPanicDoesNotAbortPass(t *testing.T) {
	recent := time.Now()
	old := recent.Add(-600 * time.Second)

	panicking := new(mocks.Solver)
	panicking.On("Name").Return("panicking").Maybe()
	panicking.On("NotifyAuctionResult", mock.Anything, mock.Anything).
		Panic("notification transport broke")

	fresh := newSettlement(trade(recent, 1, settlement.Market))
	mature := newSettlement(trade(old, 2, settlement.Market))
	matureSolver := dummySolver()

	in := []auction.SolverSettlement{
		{Solver: panicking, Settlement: fresh},
		{Solver: matureSolver, Settlement: mature},
	}

	r := auction.RetainMatureSettlements(60*time.Second, in, 0)
	assert.Equal(t, []*settlement.Settlement{mature}, retained(r))
}
