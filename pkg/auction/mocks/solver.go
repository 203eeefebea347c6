package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/helinwang/auction/pkg/auction"
)

// Solver is a mock of the auction.Solver interface.
type Solver struct {
	mock.Mock
}

// Name provides a mock function.
func (m *Solver) Name() string {
	ret := m.Called()
	return ret.Get(0).(string)
}

// NotifyAuctionResult provides a mock function.
func (m *Solver) NotifyAuctionResult(auctionID int64, result auction.AuctionResult) {
	m.Called(auctionID, result)
}
