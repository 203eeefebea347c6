package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func classTrade(class OrderClass) Trade {
	var uid OrderUid
	uid[0] = byte(class) + 1
	return Trade{Order: Order{Uid: uid, CreationDate: time.Now(), Class: class}}
}

func TestUserTrades(t *testing.T) {
	s := &Settlement{Trades: []Trade{
		classTrade(Market),
		classTrade(Liquidity),
		classTrade(Limit),
	}}

	user := s.UserTrades()
	assert.Equal(t, 2, len(user))
	assert.Equal(t, Market, user[0].Order.Class)
	assert.Equal(t, Limit, user[1].Order.Class)

	empty := &Settlement{}
	assert.Equal(t, 0, len(empty.UserTrades()))
}

func TestIsUserOrder(t *testing.T) {
	assert.True(t, Market.IsUserOrder())
	assert.True(t, Limit.IsUserOrder())
	assert.False(t, Liquidity.IsUserOrder())
}

func TestParseOrderClass(t *testing.T) {
	c, err := ParseOrderClass("limit")
	assert.NoError(t, err)
	assert.Equal(t, Limit, c)

	_, err = ParseOrderClass("stop-loss")
	assert.Error(t, err)
}
